package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"Airside/internal/calc/lookup"
	"Airside/internal/calc/multizone"
	"Airside/internal/compliance"
	"Airside/internal/logging"
	"Airside/internal/model"
	"Airside/internal/standards"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "airside",
		Short:        "ASHRAE 90.1 HVAC compliance rules for building energy models",
		SilenceUsage: true,
	}

	var logCfg logging.Config
	rootCmd.PersistentFlags().StringVar(&logCfg.Level, "log-level", "warning", "log level")
	rootCmd.PersistentFlags().StringVar(&logCfg.Format, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(applyCmd(&logCfg))
	rootCmd.AddCommand(lookupCmd(&logCfg))
	rootCmd.AddCommand(sizingCmd(&logCfg))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func applyCmd(logCfg *logging.Config) *cobra.Command {
	var template, standardsPath, out string

	cmd := &cobra.Command{
		Use:   "apply [model-file]",
		Short: "Apply the HVAC rules of a template to a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := standards.Load(standardsPath)
			if err != nil {
				return err
			}
			m, err := model.Load(args[0])
			if err != nil {
				return err
			}
			engine := compliance.NewEngine(store, logging.New(*logCfg))
			rep, err := engine.Run(cmd.Context(), m, template)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			return writeModel(out, m)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "standard template, e.g. 90.1-2010")
	cmd.Flags().StringVar(&standardsPath, "standards", "data/standards", "standards data directory or file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the updated model here")
	cmd.MarkFlagRequired("template")
	return cmd
}

func lookupCmd(logCfg *logging.Config) *cobra.Command {
	var standardsPath string
	var criteria []string
	var capacity float64
	var first bool

	cmd := &cobra.Command{
		Use:   "lookup [table]",
		Short: "Query a standards table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := standards.Load(standardsPath)
			if err != nil {
				return err
			}
			in := lookup.Input{Table: args[0], First: first}
			if in.Criteria, err = parseCriteria(criteria); err != nil {
				return err
			}
			if cmd.Flags().Changed("capacity") {
				in.Capacity = &capacity
			}
			res, err := lookup.Lookup(store, logging.New(*logCfg), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&standardsPath, "standards", "data/standards", "standards data directory or file")
	cmd.Flags().StringArrayVarP(&criteria, "criteria", "c", nil, "field=value, repeatable")
	cmd.Flags().Float64Var(&capacity, "capacity", 0, "capacity to match against the record bands")
	cmd.Flags().BoolVar(&first, "first", false, "return only the first match")
	return cmd
}

func sizingCmd(logCfg *logging.Config) *cobra.Command {
	var loopName string

	cmd := &cobra.Command{
		Use:   "sizing [model-file]",
		Short: "Show the multizone ventilation sizing of an air loop without changing the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.Load(args[0])
			if err != nil {
				return err
			}
			loop, ok := m.AirLoop(loopName)
			if !ok {
				return fmt.Errorf("air loop %q not found", loopName)
			}
			in, _ := multizone.Gather(loop, logging.New(*logCfg))
			res, sizeErr := multizone.Size(in)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			return sizeErr
		},
	}

	cmd.Flags().StringVarP(&loopName, "loop", "l", "", "air loop name")
	cmd.MarkFlagRequired("loop")
	return cmd
}

// parseCriteria turns field=value pairs into criteria. Values that parse as
// numbers or booleans are matched as such.
func parseCriteria(pairs []string) (standards.Criteria, error) {
	c := standards.Criteria{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("criteria %q: want field=value", p)
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c[k] = f
		} else if b, err := strconv.ParseBool(v); err == nil {
			c[k] = b
		} else {
			c[k] = v
		}
	}
	return c, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeModel(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := model.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
