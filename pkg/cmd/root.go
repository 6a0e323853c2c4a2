package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/api"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/export"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/mashery"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/notify"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util"
	exporterrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	pathConfig  = "path.config"
	flagEnvFile = "envFile"
)

// RootCmd - the export command
type RootCmd interface {
	RootCmd() *cobra.Command
	Execute() error
	GetProperties() properties.Properties
}

type clientFactory func(cfg *config.Config, userAgent string, registry metrics.Registry) mashery.Client

type rootCommand struct {
	name         string
	rootCmd      *cobra.Command
	props        properties.Properties
	logCfg       config.LogConfig
	newClient    clientFactory
	notifyClient api.Client
}

// NewRootCmd - Creates the root command, running it exports the catalog
func NewRootCmd(exeName, desc string) RootCmd {
	c := &rootCommand{
		name:      exeName,
		newClient: newMasheryClient,
	}

	c.rootCmd = &cobra.Command{
		Use:               c.name,
		Short:             desc,
		Version:           GetVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initialize,
		RunE:              c.run,
	}
	c.rootCmd.AddCommand(c.newConfigCmd())

	c.props = properties.NewProperties(c.rootCmd)
	c.props.AddStringProperty(pathConfig, ".", "Configuration file path for the exporter")
	c.props.AddStringFlag(flagEnvFile, "Path of the file with the environment variables to load first")
	config.AddLogConfigProperties(c.props, config.DefaultLogFileName)
	config.AddConfigProperties(c.props)

	return c
}

func newMasheryClient(cfg *config.Config, userAgent string, registry metrics.Registry) mashery.Client {
	return mashery.NewClientFromConfig(cfg.Mashery, cfg.Fields, userAgent, mashery.WithMetricsRegistry(registry))
}

// initialize - loads the env file and the config file, then sets up logging
func (c *rootCommand) initialize(cmd *cobra.Command, args []string) error {
	if found, envFile := c.props.StringFlagValue(flagEnvFile); found {
		if err := util.LoadEnvFromFile(envFile); err != nil {
			return ErrEnvFile.FormatError(envFile, err)
		}
	}

	viper.SetConfigName(c.name)
	viper.AddConfigPath(c.props.StringPropertyValue(pathConfig))
	viper.AddConfigPath(".")
	viper.SetTypeByDefaultValue(true)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return ErrConfigFile.FormatError(err)
		}
	}

	logCfg, err := config.ParseAndSetupLogConfig(c.props)
	if err != nil {
		return err
	}
	c.logCfg = logCfg
	return nil
}

// run - Executes the export, a notification failure does not fail the run
func (c *rootCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.ParseConfig(c.props)
	if err != nil {
		logRunError(err)
		return err
	}
	log.Debugf("Starting %s (%s)", c.rootCmd.Short, c.rootCmd.Version)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	userAgent := util.NewUserAgent(c.name, userAgentVersion(), BuildCommitSha).FormatUserAgent()
	registry := metrics.NewRegistry()

	result, err := export.NewExporter(c.newClient(cfg, userAgent, registry), cfg, registry).Run(ctx)
	if err != nil {
		logRunError(err)
		return err
	}

	c.notify(ctx, cfg, userAgent, result)
	return nil
}

func logRunError(err error) {
	logger := log.NewFieldLogger().WithComponent("rootCommand").WithPackage("cmd")
	if code := errorCode(err); code != 0 {
		logger = logger.WithField("errorCode", code)
	}
	logger.Error(err.Error())
}

// errorCode - the code of the outermost coded error in the chain, 0 when there is none
func errorCode(err error) int {
	var coded *exporterrors.CodedError
	if errors.As(err, &coded) {
		return coded.GetErrorCode()
	}
	return 0
}

func (c *rootCommand) notify(ctx context.Context, cfg *config.Config, userAgent string, result *export.Result) {
	client := c.notifyClient
	if client == nil {
		client = api.NewClient(config.NewTLSConfig(), "", api.WithUserAgent(userAgent))
	}

	notifier := notify.NewNotifier(cfg.Notify, client)
	if !notifier.Enabled() {
		return
	}
	if err := notify.CheckWorkbook(result.OutputFile); err != nil {
		log.Warnf("export notification skipped: %s", err)
		return
	}
	if err := notifier.Notify(ctx, notify.NewExportNotification(result)); err != nil {
		log.Warnf("export notification incomplete: %s", err)
	}
}

func (c *rootCommand) RootCmd() *cobra.Command {
	return c.rootCmd
}

func (c *rootCommand) Execute() error {
	return c.rootCmd.Execute()
}

func (c *rootCommand) GetProperties() properties.Properties {
	return c.props
}
