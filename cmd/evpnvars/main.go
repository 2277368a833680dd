// Evpnvars - BGP EVPN data model converter
//
// Reads the fabric YAML data model, optionally validates it, and writes the
// flat template variable set consumed by the configuration templates.
//
// Examples:
//
//	evpnvars -i bgp_evpn_data_model.yml --validate
//	evpnvars -i bgp_evpn_data_model.yml --list-devices
//	evpnvars -i bgp_evpn_data_model.yml -d leaf01 -o leaf01_vars.yml
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newtron-network/evpngen/pkg/cli"
	"github.com/newtron-network/evpngen/pkg/datamodel"
	"github.com/newtron-network/evpngen/pkg/tmplvars"
	"github.com/newtron-network/evpngen/pkg/util"
	"github.com/newtron-network/evpngen/pkg/version"
)

type options struct {
	input       string
	output      string
	device      string
	validate    bool
	strict      bool
	listDevices bool
	verbose     bool
	logJSON     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Validation failures are already listed on stdout.
		if !errors.Is(err, util.ErrValidationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:           "evpnvars",
		Short:         "Convert BGP EVPN YAML data model to template variables",
		Version:       version.Info(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(o.verbose, o.logJSON)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(o, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.input, "input", "i", "", "Input YAML data model file")
	flags.StringVarP(&o.output, "output", "o", "", "Output template variables file (default: stdout)")
	flags.StringVarP(&o.device, "device", "d", "", "Generate device-specific variables for this hostname")
	flags.BoolVar(&o.validate, "validate", false, "Validate the data model")
	flags.BoolVar(&o.strict, "strict", false, "Also check the data model against the schema (implies --validate)")
	flags.BoolVar(&o.listDevices, "list-devices", false, "List all devices in the data model")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVar(&o.logJSON, "log-json", false, "Emit logs as JSON")
	cmd.MarkFlagRequired("input")

	return cmd
}

func configureLogging(verbose, logJSON bool) error {
	if logJSON {
		util.SetJSONFormat()
	}
	if verbose {
		return util.SetLogLevel("debug")
	}
	return util.SetLogLevel("warn")
}

func run(o *options, out io.Writer) error {
	doc, err := datamodel.Load(o.input)
	if err != nil {
		return err
	}

	if o.validate || o.strict {
		if err := validate(doc, o.strict, out); err != nil {
			return err
		}
	}

	if o.listDevices {
		listDevices(doc, out)
		return nil
	}

	if o.device != "" && !datamodel.HasDevice(doc, o.device) {
		util.WithDevice(o.device).Warn("device is not listed under any role")
	}

	vars, err := tmplvars.Convert(doc, o.device)
	if err != nil {
		return fmt.Errorf("converting data model: %w", err)
	}
	data, err := tmplvars.Marshal(vars)
	if err != nil {
		return err
	}

	if o.output == "" {
		_, err = out.Write(data)
		return err
	}

	if dir := filepath.Dir(o.output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(o.output, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", o.output, err)
	}
	fmt.Fprintf(out, "Template variables saved to: %s\n", o.output)
	return nil
}

func validate(doc *datamodel.Document, strict bool, out io.Writer) error {
	errs := datamodel.Validate(doc)
	if strict {
		schemaErrs, err := datamodel.CheckSchema(doc)
		if err != nil {
			return fmt.Errorf("checking schema: %w", err)
		}
		errs = append(errs, schemaErrs...)
	}

	if len(errs) > 0 {
		fmt.Fprintln(out, cli.Red("Validation errors found:"))
		for _, e := range errs {
			fmt.Fprintf(out, "  - %s\n", e)
		}
		return util.NewValidationError(errs...)
	}

	fmt.Fprintln(out, cli.Green("Data model validation passed!"))
	return nil
}

// listDevices prints role membership in document order followed by the
// number of distinct hostnames.
func listDevices(doc *datamodel.Document, out io.Writer) {
	fmt.Fprintln(out, "Devices in data model:")
	if doc.Devices != nil {
		for _, role := range doc.Devices.Roles.Names() {
			fmt.Fprintf(out, "  %s:\n", cli.Bold(strings.ToUpper(role)))
			for _, host := range doc.Devices.Roles.Hosts(role) {
				fmt.Fprintf(out, "    - %s\n", host)
			}
		}
	}
	fmt.Fprintf(out, "\nTotal devices: %d\n", len(datamodel.DeviceList(doc)))
}
