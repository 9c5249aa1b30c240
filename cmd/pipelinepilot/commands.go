package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aasedek/Analytica-AI-Product-1/internal/adapters/remote/backend"
	"github.com/aasedek/Analytica-AI-Product-1/internal/adapters/remote/openai"
	"github.com/aasedek/Analytica-AI-Product-1/internal/app/editor"
	"github.com/aasedek/Analytica-AI-Product-1/internal/config"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/catalog"
	"github.com/aasedek/Analytica-AI-Product-1/internal/core/graph"
	"github.com/aasedek/Analytica-AI-Product-1/internal/infrastructure/logging"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/serialization"
	"github.com/aasedek/Analytica-AI-Product-1/pkg/validation"
)

// app is the state shared by every command once flags are parsed
type app struct {
	envFile     string
	catalogPath string
	logLevel    string
	backendURL  string

	cfg     config.Config
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pipelinepilot",
		Short:         "Visual data pipeline editor service",
		Long:          "Pipeline Pilot serves the pipeline editor and works with exported pipeline files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "YAML component catalog (default: built-in)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.backendURL, "backend-url", "", "execution backend URL override")

	root.AddCommand(
		newVersionCmd(),
		newServeCmd(a),
		newCatalogCmd(a),
		newValidateCmd(a),
		newConvertCmd(a),
		newExecuteCmd(a),
		newOptimizeCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.catalogPath != "" {
		cfg.CatalogPath = a.catalogPath
	}
	if a.backendURL != "" {
		cfg.BackendURL = a.backendURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger, err = logging.New(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if a.catalog, err = catalog.Load(cfg.CatalogPath); err != nil {
		return err
	}
	return nil
}

// executor returns the configured execution backend, or nil
func (a *app) executor() (editor.Executor, error) {
	if !a.cfg.HasBackend() {
		return nil, nil
	}
	return backend.New(backend.Config{
		URL:     a.cfg.BackendURL,
		Timeout: a.cfg.RemoteTimeout,
		RPS:     a.cfg.RemoteRPS,
		Burst:   a.cfg.RemoteBurst,
	}, backend.WithLogger(a.logger.Named("backend")))
}

// assistant returns the configured OpenAI client, or nil
func (a *app) assistant() (*openai.Client, error) {
	if !a.cfg.HasOpenAI() {
		return nil, nil
	}
	return openai.New(openai.Config{
		APIKey:      a.cfg.OpenAIAPIKey,
		Model:       a.cfg.OpenAIModel,
		BaseURL:     a.cfg.OpenAIBaseURL,
		MaxTokens:   a.cfg.OpenAIMaxTokens,
		Temperature: float32(a.cfg.OpenAITemperature),
		Timeout:     a.cfg.RemoteTimeout,
		RPS:         a.cfg.RemoteRPS,
		Burst:       a.cfg.RemoteBurst,
	}, openai.WithLogger(a.logger.Named("openai")))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version must work without a valid environment
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog [search]",
		Short: "List the components a pipeline can use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			groups := catalog.Grouped(a.catalog.Search(term))
			out := cmd.OutOrStdout()
			if asJSON {
				return serialization.DefaultSerializer().Write(out, groups)
			}
			if len(groups) == 0 {
				fmt.Fprintf(out, "No components match %q\n", term)
				return nil
			}
			for _, g := range groups {
				fmt.Fprintf(out, "%s\n", g.Category)
				for _, e := range g.Entries {
					fmt.Fprintf(out, "  %s %-36s %s\n", e.Icon.Glyph(), e.Name, e.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var checkCycles bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an exported pipeline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], nil)
			if err != nil {
				return err
			}
			if err := validation.ValidatePipeline(&doc, a.catalog, validation.PipelineValidationOptions{CheckCycles: checkCycles}); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid pipeline (%d nodes, %d connections)\n",
				args[0], len(doc.Nodes), len(doc.Connections))
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkCycles, "check-cycles", false, "reject pipelines whose connections form a cycle")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		to      string
		key     string
		fromKey string
	)
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a pipeline file in another format",
		Long: `Rewrite a pipeline file in another format. Formats follow the file
extension (.json, .msgpack, with an optional .gz or .zst suffix) unless --to
is given, e.g. --to msgpack+zstd.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := serializerFor(args[0], "", fromKey)
			if err != nil {
				return err
			}
			out, err := serializerFor(args[1], to, key)
			if err != nil {
				return err
			}

			doc, err := readDocument(args[0], in)
			if err != nil {
				return err
			}
			if err := doc.Check(a.catalog); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := out.Write(f, doc); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Debug("pipeline converted",
				zap.String("from", in.Name()), zap.String("to", out.Name()))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[1], out.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "output format (json, msgpack, with +gzip or +zstd)")
	cmd.Flags().StringVar(&key, "encrypt-key", "", "hex AES-256 key sealing the output")
	cmd.Flags().StringVar(&fromKey, "decrypt-key", "", "hex AES-256 key opening the input")
	return cmd
}

// serializerFor picks a format from an explicit name or the file extension
func serializerFor(path, format, hexKey string) (*serialization.Serializer, error) {
	var (
		ser *serialization.Serializer
		err error
	)
	if format != "" {
		ser, err = serialization.ParseFormat(format)
	} else {
		ser, err = serialization.FormatForPath(path)
	}
	if err != nil {
		return nil, err
	}
	if hexKey == "" {
		return ser, nil
	}
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("invalid key: want 32 bytes")
	}
	return ser.WithEncryption(key), nil
}

// readDocument decodes a pipeline file; ser defaults to the format implied
// by the extension, falling back to JSON
func readDocument(path string, ser *serialization.Serializer) (graph.Document, error) {
	if ser == nil {
		var err error
		if ser, err = serialization.FormatForPath(path); err != nil {
			ser = serialization.DefaultSerializer()
		}
	}
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return graph.Document{}, err
		}
		defer f.Close()
		r = f
	}
	return editor.DecodeDocument(r, ser)
}

// loadSession opens a session holding the pipeline in path
func (a *app) loadSession(path string, opts ...editor.Option) (*editor.Session, error) {
	doc, err := readDocument(path, nil)
	if err != nil {
		return nil, err
	}
	opts = append([]editor.Option{editor.WithLogger(a.logger)}, opts...)
	sess := editor.NewSession(a.catalog, opts...)

	// re-encode so the session import path applies its full checks
	var buf bytes.Buffer
	if err := serialization.DefaultSerializer().Write(&buf, doc); err != nil {
		return nil, err
	}
	if err := sess.Import(&buf, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sess, nil
}

func newExecuteCmd(a *app) *cobra.Command {
	var useAI bool
	cmd := &cobra.Command{
		Use:   "execute <file>",
		Short: "Send a pipeline file to the execution backend and print the plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ex editor.Executor
			if useAI {
				client, err := a.assistant()
				if err != nil {
					return err
				}
				if client != nil {
					ex = client
				}
			} else {
				client, err := a.executor()
				if err != nil {
					return err
				}
				if client != nil {
					ex = client
				}
			}

			sess, err := a.loadSession(args[0], editor.WithExecutor(ex))
			if err != nil {
				return err
			}
			resp, err := sess.Execute(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), editor.ExecuteFailure(err).ExecutionPlan)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.ExecutionPlan)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useAI, "ai", false, "ask the OpenAI model for the plan instead of the backend")
	return cmd
}

func newOptimizeCmd(a *app) *cobra.Command {
	var goals string
	cmd := &cobra.Command{
		Use:   "optimize <file>",
		Short: "Ask the assistant how to improve a pipeline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []editor.Option
			client, err := a.assistant()
			if err != nil {
				return err
			}
			if client != nil {
				opts = append(opts, editor.WithOptimizer(client))
			}

			sess, err := a.loadSession(args[0], opts...)
			if err != nil {
				return err
			}
			resp, err := sess.Optimize(cmd.Context(), goals)
			if err != nil {
				resp = editor.OptimizeFailure(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Suggestions:\n%s\n", resp.Suggestions)
			if resp.Rationale != "" {
				fmt.Fprintf(out, "\nRationale:\n%s\n", resp.Rationale)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&goals, "goals", "", "what the pipeline should get better at")
	_ = cmd.MarkFlagRequired("goals")
	return cmd
}
