package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/funvibe/funterm/internal/match"
	"github.com/funvibe/funterm/internal/path"
	"github.com/funvibe/funterm/internal/server"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

func rootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "funterm",
		Short:         "Symbolic term engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (default: nearest funterm.yaml)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&flags.unicode, "unicode", "u", false, "Display operators with unicode names")

	cmd.AddCommand(
		parseCmd(flags),
		matchCmd(flags),
		patternCmd(flags),
		substCmd(flags),
		atCmd(flags),
		prettifyCmd(flags),
		freeCmd(flags),
		serveCmd(flags),
		registryCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "funterm version %s\n", Version)
			},
		},
	)
	return cmd
}

func parseCmd(flags *globalFlags) *cobra.Command {
	var canonical bool
	cmd := &cobra.Command{
		Use:   "parse TERM",
		Short: "Parse a term and print it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(a *app, args []string) error {
			t, out, err := a.engine.Run(args[0], nil)
			if err != nil {
				return err
			}
			if canonical {
				out = t.CanonicalString()
			}
			a.printf("%s\n", out)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&canonical, "canonical", false, "Print the canonical form instead of the display form")
	return cmd
}

func (a *app) parsePair(args []string) (term.Term, term.Term, error) {
	first, err := a.engine.Parse(args[0])
	if err != nil {
		return nil, nil, err
	}
	second, err := a.engine.Parse(args[1])
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (a *app) printSubst(s subst.Subst) {
	for _, name := range s.Names() {
		a.printf("%s := %s\n", a.paint(ansiCyan, name), a.engine.Display(s[name]))
	}
}

func (a *app) printNoMatch() {
	a.printf("%s\n", a.paint(ansiRed, "no match"))
}

func matchCmd(flags *globalFlags) *cobra.Command {
	var instantiate bool
	cmd := &cobra.Command{
		Use:   "match TARGET SCHEMA",
		Short: "Match a term against a schema with higher-order variables",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(a *app, args []string) error {
			target, schema, err := a.parsePair(args)
			if err != nil {
				return err
			}
			r, ok := a.engine.Match(target, schema)
			if !ok {
				a.printNoMatch()
				return nil
			}
			a.printSubst(r.Subst)
			for _, name := range slices.Sorted(maps.Keys(r.Expansions)) {
				a.printf("%s expands %d\n", a.paint(ansiCyan, name), r.Expansions[name])
			}
			if instantiate {
				a.printf("%s\n", a.engine.Display(match.Instantiate(schema, r)))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&instantiate, "instantiate", false, "Also print the instantiated schema")
	return cmd
}

func patternCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pattern TARGET PATTERN",
		Short: "Match a term against a first-order pattern",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(a *app, args []string) error {
			target, pattern, err := a.parsePair(args)
			if err != nil {
				return err
			}
			s, ok := a.engine.MatchPattern(target, pattern)
			if !ok {
				a.printNoMatch()
				return nil
			}
			a.printSubst(s)
			return nil
		}),
	}
}

func substCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subst TERM NAME=VALUE...",
		Short: "Substitute terms for free variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(flags, func(a *app, args []string) error {
			s := make(subst.Subst)
			for _, binding := range args[1:] {
				name, text, ok := strings.Cut(binding, "=")
				name = strings.TrimSpace(name)
				if !ok || !term.IsVariableName(name) {
					return fmt.Errorf("binding %q: want VARIABLE=TERM", binding)
				}
				value, err := a.engine.Parse(text)
				if err != nil {
					return fmt.Errorf("binding %s: %w", name, err)
				}
				s[name] = value
			}
			_, out, err := a.engine.Run(args[0], func(t term.Term) (term.Term, error) {
				return a.engine.Substitute(t, s), nil
			})
			if err != nil {
				return err
			}
			a.printf("%s\n", out)
			return nil
		}),
	}
}

func atCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "at TERM PATH",
		Short: "Print the subterm at a path",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(a *app, args []string) error {
			p, err := path.Parse(args[1])
			if err != nil {
				return err
			}
			_, out, err := a.engine.Run(args[0], func(t term.Term) (term.Term, error) {
				return a.engine.At(t, p)
			})
			if err != nil {
				return err
			}
			a.printf("%s\n", out)
			return nil
		}),
	}
}

func prettifyCmd(flags *globalFlags) *cobra.Command {
	var expand bool
	cmd := &cobra.Command{
		Use:   "prettify TERM PATH",
		Short: "Rewrite a structural path into the pretty dialect",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(flags, func(a *app, args []string) error {
			t, err := a.engine.Parse(args[0])
			if err != nil {
				return err
			}
			p, err := path.Parse(args[1])
			if err != nil {
				return err
			}
			if expand {
				p, err = path.Expand(t, p)
			} else {
				p, err = a.engine.Prettify(t, p)
			}
			if err != nil {
				return err
			}
			a.printf("%s\n", p)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&expand, "expand", false, "Rewrite a pretty path into the structural dialect instead")
	return cmd
}

func freeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "free TERM",
		Short: "List free variables, math variables and unknown constants",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(a *app, args []string) error {
			t, err := a.engine.Parse(args[0])
			if err != nil {
				return err
			}
			a.printf("free: %s\n", strings.Join(a.engine.FreeVars(t), " "))
			a.printf("math: %s\n", strings.Join(a.engine.MathVars(t), " "))
			a.printf("new:  %s\n", strings.Join(a.engine.NewConstants(t), " "))
			return nil
		}),
	}
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the term service over gRPC",
		Args:  cobra.NoArgs,
		RunE: withApp(flags, func(a *app, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Address
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			srv, err := server.New(a.engine, reg)
			if err != nil {
				return err
			}
			if a.cfg.Server.Reflection {
				if err := srv.EnableReflection(); err != nil {
					return err
				}
			}
			if metricsAddr := a.cfg.Server.MetricsAddress; metricsAddr != "" {
				go a.serveMetrics(ctx, metricsAddr, reg)
			}
			return srv.ListenAndServe(ctx, addr)
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func (a *app) serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()
	a.logger.Info("serving metrics", "address", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Warn("metrics server failed", "error", err)
	}
}

func registryCmd(flags *globalFlags) *cobra.Command {
	var storePath string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Save, load or list the symbol registry",
	}
	cmd.PersistentFlags().StringVar(&storePath, "store", "", "SQLite store path (default from config)")
	resolve := func(a *app) string {
		if storePath != "" {
			return storePath
		}
		return a.cfg.Store.Path
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save",
			Short: "Write the registry to the store",
			Args:  cobra.NoArgs,
			RunE: withApp(flags, func(a *app, args []string) error {
				p := resolve(a)
				if err := a.engine.SaveSymbols(context.Background(), p); err != nil {
					return err
				}
				a.printf("saved %d symbols to %s\n", a.engine.Registry().Len(), p)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "load",
			Short: "Add the stored symbols to the registry and list it",
			Args:  cobra.NoArgs,
			RunE: withApp(flags, func(a *app, args []string) error {
				p := resolve(a)
				n, err := a.engine.LoadSymbols(context.Background(), p)
				if err != nil {
					return err
				}
				a.printf("loaded %d symbols from %s\n", n, p)
				a.printSymbols()
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the registry",
			Args:  cobra.NoArgs,
			RunE: withApp(flags, func(a *app, args []string) error {
				a.printSymbols()
				return nil
			}),
		},
	)
	return cmd
}

func (a *app) printSymbols() {
	for _, sym := range a.engine.Registry().Symbols() {
		switch {
		case sym.Target != "":
			a.printf("%-8s %s -> %s\n", sym.Kind, sym.Name, sym.Target)
		case sym.Precedence != 0:
			a.printf("%-8s %s %d\n", sym.Kind, sym.Name, sym.Precedence)
		default:
			a.printf("%-8s %s\n", sym.Kind, sym.Name)
		}
	}
}
