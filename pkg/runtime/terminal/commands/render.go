package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
	"github.com/de-tools/covid-atlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

type SVGRenderer interface {
	SVG(ctx context.Context, fig domain.Figure, w io.Writer) error
}

type RenderCmd struct {
	provider DatasetProvider
	renderer SVGRenderer
	output   string
	value    string
	out      string
}

func NewRenderCmd(provider DatasetProvider, renderer SVGRenderer) *cobra.Command {
	rc := &RenderCmd{provider: provider, renderer: renderer}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one dashboard chart to SVG",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.output, "output", "", "Chart to render (covid_cases_fig, selected_patient_chart, confirmed_patient_age_dist_fig)")
	cmd.Flags().StringVar(&rc.value, "value", "", `Control value as JSON, e.g. '["new_released"]', '"gender"' or '[20, 40]' (default is the control's default)`)
	cmd.Flags().StringVar(&rc.out, "out", "-", "File to write the SVG to, - for stdout")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ds, _, err := rc.provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	bindings := dashboard.NewBindings(ds)
	binding, ok := bindings.ForOutput(domain.OutputID(rc.output))
	if !ok || binding.Control == domain.ControlMainTabs {
		return fmt.Errorf("%w: %q has no chart", dashboard.ErrUnknownOutput, rc.output)
	}

	ev := dashboard.Event{Control: binding.Control, Value: defaultValue(binding.Control)}
	if rc.value != "" {
		ev, err = bindings.Decode(binding.Control, json.RawMessage(rc.value))
		if err != nil {
			return err
		}
	}

	update, err := bindings.Dispatch(ctx, ev)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if rc.out != "-" {
		f, err := os.Create(rc.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", rc.out, err)
		}
		defer f.Close()
		w = f
	}

	return rc.renderer.SVG(ctx, *update.Figure, w)
}

// defaultValue is the value the control is mounted with.
func defaultValue(control domain.ControlID) any {
	for _, tab := range domain.AllTabs {
		for _, c := range dashboard.Panel(tab).Controls {
			if c.ID == control {
				return c.Value
			}
		}
	}
	return nil
}
