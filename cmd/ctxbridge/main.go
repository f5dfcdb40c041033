// Package main provides the CLI entry point for ctxbridge.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/config"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/output"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

var (
	configPath string
	debug      bool
	outputPath string
	pretty     bool

	readAll bool

	fileType   string
	locToken   string
	targetPath string

	// env lives for the whole process and is closed when main returns
	procEnv *state.Env
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ctxbridge",
		Short: "Extract and inject styled context in desktop documents",
		Long: `ctxbridge reads the selection of the application in front (or of a
document on disk) together with its style and location, and writes styled
markup back into spreadsheets, word-processing documents and presentations.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: built-in)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to the console")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output (default when stdout is a terminal)")

	readCmd := &cobra.Command{
		Use:   "read [path]",
		Short: "Read the current selection and print its canonical payload",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRead,
	}
	readCmd.Flags().BoolVar(&readAll, "all", false, "Read the whole content instead of the selection")

	writeCmd := &cobra.Command{
		Use:   "write markup-file",
		Short: "Write styled markup into a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runWrite,
	}
	writeCmd.Flags().StringVar(&fileType, "type", "", "Target file type: docx, xlsx or pptx")
	writeCmd.Flags().StringVar(&locToken, "location", "", "Location token reported by an earlier read")
	writeCmd.Flags().StringVar(&targetPath, "target", "", "Write into this file in the background instead of the foreground document")
	_ = writeCmd.MarkFlagRequired("type")

	identifyCmd := &cobra.Command{
		Use:   "identify path",
		Short: "Print the stable identity of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentify,
	}

	configCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigDump,
	})

	rootCmd.AddCommand(readCmd, writeCmd, identifyCmd, configCmd)

	err := rootCmd.ExecuteContext(context.Background())
	if procEnv != nil {
		_ = procEnv.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfiguration(configPath)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}
	if debug {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	// data goes to stdout unless --output is given, keep logs off it
	lp := os.Stdout
	if outputPath == "" {
		lp = os.Stderr
	}
	log, err := cfg.Logging.PrepareTo(lp)
	if err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	procEnv = state.New(cfg, log, host.NewSystemHost(log))
	cmd.SetContext(state.ContextWithEnv(cmd.Context(), procEnv))
	return nil
}

func runRead(cmd *cobra.Command, args []string) error {
	env := state.EnvFromContext(cmd.Context())
	path := ""
	if len(args) > 0 {
		path = args[0]
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
	}

	opts := ctxbridge.DefaultOptions()
	opts.ReadAll = readAll
	out := ctxbridge.NewFactory(env).Read(cmd.Context(), path, opts)
	for _, p := range out.Trace {
		fields := []zap.Field{zap.String("probe", p.Name), zap.Bool("invoked", p.Invoked), zap.Stringer("side_effect", p.SideEffect)}
		if p.Invoked {
			fields = append(fields, zap.Stringer("status", p.Status), zap.String("kind", string(p.Kind)))
		}
		env.Log.Debug("Read probe", fields...)
	}
	if out.Result.Status == models.StatusFailed {
		return fmt.Errorf("nothing could be read: %w", out.Result.Err)
	}
	data, err := output.PayloadJSON(out.Result.Context, prettyOutput())
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return emit(data)
}

func runWrite(cmd *cobra.Command, args []string) error {
	env := state.EnvFromContext(cmd.Context())
	markup, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read markup: %w", err)
	}

	req := models.InjectRequest{
		Markup:   string(markup),
		Location: locToken,
		File:     models.FileInfo{FileType: models.ParseFileType(fileType)},
	}
	if targetPath != "" {
		req.File = models.FileInfo(fileid.Identify(targetPath))
		req.File.FileType = models.ParseFileType(fileType)
		req.TargetProg = true
	}

	placement, err := ctxbridge.NewFactory(env).Inject(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("write failed (%s): %w", ctxbridge.Classify(err), err)
	}
	data, err := output.ToJSON(placement, prettyOutput())
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return emit(data)
}

func runIdentify(_ *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("file not found: %s", args[0])
	}
	data, err := output.ToJSON(models.FileInfo(fileid.Identify(args[0])), prettyOutput())
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return emit(data)
}

func runConfigDump(cmd *cobra.Command, _ []string) error {
	data, err := config.Dump(state.EnvFromContext(cmd.Context()).Cfg)
	if err != nil {
		return err
	}
	return emitRaw(data)
}

func prettyOutput() bool {
	return pretty || (outputPath == "" && term.IsTerminal(int(os.Stdout.Fd())))
}

func emit(data []byte) error {
	return emitRaw(append(data, '\n'))
}

func emitRaw(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
