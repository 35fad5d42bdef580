package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/covid-atlas/pkg/models/api"
	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLoop struct {
	mock.Mock
}

func (m *mockLoop) Submit(ctx context.Context, ev dashboard.Event) (dashboard.Update, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(dashboard.Update), args.Error(1)
}

func (m *mockLoop) Current(ctx context.Context, output domain.OutputID) (dashboard.Update, error) {
	args := m.Called(ctx, output)
	return args.Get(0).(dashboard.Update), args.Error(1)
}

type mockDecoder struct {
	mock.Mock
}

func (m *mockDecoder) Decode(control domain.ControlID, raw json.RawMessage) (dashboard.Event, error) {
	args := m.Called(control, string(raw))
	return args.Get(0).(dashboard.Event), args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) SVG(ctx context.Context, fig domain.Figure, w io.Writer) error {
	args := m.Called(ctx, fig)
	_, _ = io.WriteString(w, "<svg></svg>")
	return args.Error(0)
}

type fixture struct {
	loop     *mockLoop
	decoder  *mockDecoder
	renderer *mockRenderer
	router   http.Handler
}

func setupFixture() *fixture {
	f := &fixture{
		loop:     new(mockLoop),
		decoder:  new(mockDecoder),
		renderer: new(mockRenderer),
	}
	h := NewHandler(f.loop, f.decoder, f.renderer)

	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Get("/_dash-layout", h.Layout)
	r.Post("/_dash-update-component", h.Update)
	r.Get("/_dash-render/{output}.svg", h.RenderSVG)
	f.router = r
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.Error {
	t.Helper()
	var apiErr api.Error
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

func TestHandler_Index(t *testing.T) {
	f := setupFixture()

	rec := f.do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<title>COVID-19 Dashboard</title>")
	assert.Contains(t, body, `data-tab="confirmed_patient"`)
	assert.Contains(t, body, `id="main-tabs-content"`)
}

func TestHandler_Layout(t *testing.T) {
	f := setupFixture()

	tests := []struct {
		name     string
		query    string
		tab      string
		controls int
	}{
		{name: "default tab", query: "", tab: "home", controls: 0},
		{name: "cases", query: "?tab=cases", tab: "cases", controls: 1},
		{name: "unknown tab renders empty panel", query: "?tab=settings", tab: "settings", controls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/_dash-layout"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp api.LayoutResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.tab, resp.Panel.Tab)
			assert.Len(t, resp.Panel.Controls, tt.controls)
			assert.Len(t, resp.Tabs, 4)
		})
	}

	f.loop.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestHandler_Update(t *testing.T) {
	fig := domain.Figure{Type: domain.ChartTypePie, Title: "Percentage of Covid-19 Patient in Indonesia by Gender"}
	ev := dashboard.Event{Control: domain.ControlGraphSelector, Value: domain.ChartKindGender}

	tests := []struct {
		name           string
		body           string
		setupMocks     func(f *fixture)
		expectedStatus int
		check          func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "figure update",
			body: `{"control": "graph_selector", "value": "gender"}`,
			setupMocks: func(f *fixture) {
				f.decoder.On("Decode", domain.ControlGraphSelector, `"gender"`).Return(ev, nil)
				f.loop.On("Submit", mock.Anything, ev).
					Return(dashboard.Update{Output: domain.OutputPatientChart, Figure: &fig}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp api.UpdateResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "selected_patient_chart", resp.Output)
				require.NotNil(t, resp.Figure)
				assert.Equal(t, fig.Title, resp.Figure.Layout.Title.Text)
				assert.Nil(t, resp.Panel)
			},
		},
		{
			name:           "malformed body",
			body:           `{"control": `,
			setupMocks:     func(f *fixture) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing value",
			body:           `{"control": "graph_selector"}`,
			setupMocks:     func(f *fixture) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown control",
			body: `{"control": "zoom", "value": 1}`,
			setupMocks: func(f *fixture) {
				f.decoder.On("Decode", domain.ControlID("zoom"), `1`).
					Return(dashboard.Event{}, fmt.Errorf("%w: %q", dashboard.ErrUnknownControl, "zoom"))
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				apiErr := decodeError(t, rec)
				assert.Equal(t, http.StatusBadRequest, apiErr.Code)
				assert.Contains(t, apiErr.Message, "unknown control")
			},
		},
		{
			name: "loop stopped",
			body: `{"control": "graph_selector", "value": "gender"}`,
			setupMocks: func(f *fixture) {
				f.decoder.On("Decode", domain.ControlGraphSelector, `"gender"`).Return(ev, nil)
				f.loop.On("Submit", mock.Anything, ev).Return(dashboard.Update{}, dashboard.ErrLoopStopped)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupFixture()
			tt.setupMocks(f)

			rec := f.do(http.MethodPost, "/_dash-update-component", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.check != nil {
				tt.check(t, rec)
			}
			f.decoder.AssertExpectations(t)
			f.loop.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateTabCarriesMountedFigures(t *testing.T) {
	f := setupFixture()
	ev := dashboard.Event{Control: domain.ControlMainTabs, Value: domain.TabCases}
	panel := dashboard.Panel(domain.TabCases)
	fig := domain.Figure{Type: domain.ChartTypeLine, Traces: []domain.Trace{}}

	f.decoder.On("Decode", domain.ControlMainTabs, `"cases"`).Return(ev, nil)
	f.loop.On("Submit", mock.Anything, ev).Return(dashboard.Update{
		Output:  domain.OutputTabContent,
		Panel:   &panel,
		Mounted: []dashboard.Update{{Output: domain.OutputCasesFigure, Figure: &fig}},
	}, nil)

	rec := f.do(http.MethodPost, "/_dash-update-component", `{"control": "main-tabs", "value": "cases"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.UpdateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Panel)
	assert.Equal(t, "cases", resp.Panel.Tab)
	assert.Equal(t, []any{"new_released", "new_deceased", "acc_released", "acc_deceased"}, resp.Panel.Controls[0].Value)
	require.Len(t, resp.Mounted, 1)
	assert.Equal(t, "covid_cases_fig", resp.Mounted[0].Output)
	assert.Empty(t, resp.Mounted[0].Figure.Data)
}

func TestHandler_RenderSVG(t *testing.T) {
	fig := domain.Figure{Type: domain.ChartTypeScatter}

	t.Run("current figure", func(t *testing.T) {
		f := setupFixture()
		f.loop.On("Current", mock.Anything, domain.OutputConfirmedAgeDist).
			Return(dashboard.Update{Output: domain.OutputConfirmedAgeDist, Figure: &fig}, nil)
		f.renderer.On("SVG", mock.Anything, fig).Return(nil)

		rec := f.do(http.MethodGet, "/_dash-render/confirmed_patient_age_dist_fig.svg", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<svg></svg>", rec.Body.String())
		f.renderer.AssertExpectations(t)
	})

	t.Run("unknown output", func(t *testing.T) {
		f := setupFixture()
		f.loop.On("Current", mock.Anything, domain.OutputID("nope")).
			Return(dashboard.Update{}, dashboard.ErrUnknownOutput)

		rec := f.do(http.MethodGet, "/_dash-render/nope.svg", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})

	t.Run("panel output has no figure", func(t *testing.T) {
		f := setupFixture()
		panel := dashboard.Panel(domain.TabHome)
		f.loop.On("Current", mock.Anything, domain.OutputTabContent).
			Return(dashboard.Update{Output: domain.OutputTabContent, Panel: &panel}, nil)

		rec := f.do(http.MethodGet, "/_dash-render/main-tabs-content.svg", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		f.renderer.AssertNotCalled(t, "SVG", mock.Anything, mock.Anything)
	})
}
