package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patientsCSV = `id,gender,age,province,current_state
1,male,51,DKI Jakarta,released
2,female,,DKI Jakarta,deceased
3,female,34,Banten,isolated
4,male,60,,released
5,female,NaN,Bali,isolated
6,male,23,Bali,isolated
7,female,45.0,Jawa Barat,released
8,male,70,Jawa Barat,deceased
9,female,8,Jawa Timur,isolated
10,male,39,Jawa Timur,released
`

func TestParsePatients_DropsRowsWithMissingAge(t *testing.T) {
	records, dropped, err := ParsePatients(strings.NewReader(patientsCSV))
	require.NoError(t, err)

	assert.Len(t, records, 8)
	assert.Equal(t, 2, dropped)
	// missing province does not matter: the column is not retained
	assert.Equal(t, domain.PatientRecord{Index: 3, Gender: "male", Age: 60, CurrentState: "released"}, records[2])
	assert.Equal(t, domain.PatientRecord{Index: 6, Gender: "female", Age: 45, CurrentState: "released"}, records[4])
	for _, r := range records {
		assert.NotEmpty(t, r.Gender)
		assert.NotEmpty(t, r.CurrentState)
	}
}

func TestParsePatients_MissingTokensAndBadAges(t *testing.T) {
	input := "gender,age,current_state\n" +
		"male,30,released\n" +
		"NA,30,released\n" +
		"female,null,released\n" +
		"female,31.5,released\n" +
		"female,thirty,released\n" +
		"male,40,None\n" +
		"male,41\n" +
		"male,inf,released\n" +
		"male,-Infinity,released\n" +
		"male,1e300,released\n" +
		"male,42,released,extra\n"

	records, dropped, err := ParsePatients(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, 10, dropped)
	assert.Equal(t, 30, records[0].Age)
}

func TestParsePatients_MissingColumn(t *testing.T) {
	_, _, err := ParsePatients(strings.NewReader("gender,age\nmale,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current_state")
}

func TestParsePatients_Latin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("gender,age,current_state\n")
	// "perempuán" encoded as ISO-8859-1
	buf.Write([]byte{'p', 'e', 'r', 'e', 'm', 'p', 'u', 0xe1, 'n'})
	buf.WriteString(",22,released\n")

	records, _, err := ParsePatients(&buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "perempuán", records[0].Gender)
}

func TestParseCases_DropsAnyIncompleteRow(t *testing.T) {
	input := `date,new_released,new_deceased,acc_released,acc_deceased
2020-03-02,0,0,0,0
2020-03-03,1,,1,0
,2,1,3,1
2020-03-05,4,2,7,3
2020-03-06,1,0,8,3,
`

	records, dropped, err := ParseCases(strings.NewReader(input))
	require.NoError(t, err)

	// the last row has a trailing extra field
	assert.Equal(t, 3, dropped)
	require.Len(t, records, 2)
	assert.Equal(t, []int{0, 3}, []int{records[0].Index, records[1].Index})
	assert.Equal(t, domain.CaseRecord{Index: 3, NewReleased: 4, NewDeceased: 2, AccReleased: 7, AccDeceased: 3}, records[1])
}

func TestParseCases_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty file", input: ""},
		{name: "missing series column", input: "new_released,new_deceased,acc_released\n1,2,3\n"},
		{name: "broken quoting", input: "new_released,new_deceased,acc_released,acc_deceased\n\"1,2,3,4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCases(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
