package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/api"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/export"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/mashery"
	metrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
	"gopkg.in/h2non/gock.v1"
	"gopkg.in/yaml.v3"
)

const testHost = "https://mashery.test"

func newTestRootCmd(t *testing.T, args ...string) (*rootCommand, *bytes.Buffer) {
	viper.Reset()
	t.Setenv("MASHERY_TOKEN", "")

	c := NewRootCmd("mashery_export", "Mashery catalog export").(*rootCommand)
	c.newClient = func(cfg *config.Config, userAgent string, registry metrics.Registry) mashery.Client {
		apiClient := api.NewClient(nil, "", api.WithTransport(gock.DefaultTransport), api.WithUserAgent(userAgent))
		return mashery.NewClient(apiClient, cfg.Mashery.GetURL(), cfg.Mashery.GetToken(), cfg.Fields,
			mashery.WithPageSize(cfg.Mashery.GetPageSize()),
			mashery.WithMetricsRegistry(registry))
	}

	out := &bytes.Buffer{}
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(&bytes.Buffer{})
	c.rootCmd.SetArgs(args)
	return c, out
}

func TestRootCmdFlags(t *testing.T) {
	c, _ := newTestRootCmd(t)
	flags := c.RootCmd().PersistentFlags()

	testCases := map[string]string{
		"pathConfig":           ".",
		"masheryUrl":           config.DefaultMasheryURL,
		"masheryTimeout":       "1m0s",
		"masheryPageSize":      "0",
		"masherySslMinVersion": config.TLSDefaultMinVersionString(),
		"exportFile":           config.DefaultExportFile,
		"exportSheet":          config.DefaultSheetName,
		"exportColumns":        string(config.ColumnsMerged),
		"logLevel":             "info",
		"logFileName":          config.DefaultLogFileName,
		"notifySmtpPort":       "25",
		"envFile":              "",
	}
	for name, def := range testCases {
		flag := flags.Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
	assert.NotNil(t, c.GetProperties())
}

func mockCatalog() {
	gock.New(testHost).
		Get("/v3/rest/packages$").
		MatchHeader("Authorization", "^Bearer abc$").
		Reply(200).
		JSON(`[{"id":1,"name":"Pkg","organization":{"name":"Acme"},"plans":[{"id":10,"name":"Plan"}]}]`)
	gock.New(testHost).
		Get("/v3/rest/packages/1/plans/10/services$").
		Reply(200).
		JSON(`[{"id":100,"name":"Svc","version":"1.0"}]`)
	gock.New(testHost).
		Get("/v3/rest/services/100/endpoints$").
		Reply(200).
		JSON(`[{"id":1000,"name":"Ep","supportedHttpMethods":["GET","POST"]}]`)
}

func TestRunExport(t *testing.T) {
	defer gock.Off()
	mockCatalog()

	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.xlsx")
	c, _ := newTestRootCmd(t,
		"--pathConfig", dir,
		"--masheryUrl", testHost+"/v3/rest",
		"--masheryToken", "abc",
		"--exportFile", file,
		"--exportSheet", "Catalog",
		"--notifyWebhookUrl", "https://hooks.test/export",
	)
	webhook := &api.MockHTTPClient{ResponseCode: 200}
	c.notifyClient = webhook

	require.Nil(t, c.Execute())
	assert.True(t, gock.IsDone())

	f, err := excelize.OpenFile(file)
	require.Nil(t, err)
	defer f.Close()
	rows, err := f.GetRows("Catalog")
	require.Nil(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Svc", "Ep"}, rows[1][:2])

	require.Len(t, webhook.Requests, 1)
	body := gjson.ParseBytes(webhook.Requests[0].Body)
	assert.Equal(t, file, body.Get("outputFile").String())
	assert.Equal(t, int64(1), body.Get("rows").Int())
	assert.Equal(t, int64(3), body.Get("requests").Int())
}

func TestRunExportNotificationFailureIsNotFatal(t *testing.T) {
	defer gock.Off()
	mockCatalog()

	dir := t.TempDir()
	c, _ := newTestRootCmd(t,
		"--pathConfig", dir,
		"--masheryUrl", testHost+"/v3/rest",
		"--masheryToken", "abc",
		"--exportFile", filepath.Join(dir, "catalog.xlsx"),
		"--notifyWebhookUrl", "https://hooks.test/export",
	)
	c.notifyClient = &api.MockHTTPClient{ResponseCode: 502}

	assert.Nil(t, c.Execute())
}

func TestRunExportErrors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		dir := t.TempDir()
		c, _ := newTestRootCmd(t, "--pathConfig", dir, "--exportFile", filepath.Join(dir, "out.xlsx"))
		err := c.Execute()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "mashery.token")
	})

	t.Run("fetch failure", func(t *testing.T) {
		defer gock.Off()
		gock.New(testHost).
			Get("/v3/rest/packages$").
			Reply(401).
			JSON(`{"errorCode":"ERR_403_NOT_AUTHORIZED","errorMessage":"Not Authorized"}`)

		dir := t.TempDir()
		file := filepath.Join(dir, "out.xlsx")
		c, _ := newTestRootCmd(t,
			"--pathConfig", dir,
			"--masheryUrl", testHost+"/v3/rest",
			"--masheryToken", "abc",
			"--exportFile", file,
		)
		err := c.Execute()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "unauthorized")

		_, statErr := os.Stat(file)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("bad config file", func(t *testing.T) {
		dir := t.TempDir()
		require.Nil(t, os.WriteFile(filepath.Join(dir, "mashery_export.yaml"), []byte("mashery: [unclosed"), 0644))
		c, _ := newTestRootCmd(t, "--pathConfig", dir)
		err := c.Execute()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "[Error Code 1412]")
	})

	t.Run("missing env file", func(t *testing.T) {
		c, _ := newTestRootCmd(t, "--pathConfig", t.TempDir(), "--envFile", "does-not-exist.env")
		err := c.Execute()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "[Error Code 1411]")
	})
}

func dumpConfig(t *testing.T, args ...string) map[string]interface{} {
	c, out := newTestRootCmd(t, append([]string{"config"}, args...)...)
	require.Nil(t, c.Execute())

	dump := map[string]interface{}{}
	require.Nil(t, yaml.Unmarshal(out.Bytes(), &dump))
	return dump
}

func section(t *testing.T, dump map[string]interface{}, name string) map[string]interface{} {
	s, ok := dump[name].(map[string]interface{})
	require.True(t, ok, "missing section %s", name)
	return s
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	yamlCfg := []byte("mashery:\n  token: supersecrettoken\nexport:\n  sheet: FromFile\nnotify:\n  smtp:\n    password: hunter22hunter\n")
	require.Nil(t, os.WriteFile(filepath.Join(dir, "mashery_export.yaml"), yamlCfg, 0644))

	dump := dumpConfig(t, "--pathConfig", dir, "--exportColumns", "namespaced")

	masheryCfg := section(t, dump, "mashery")
	assert.Equal(t, "supe****", masheryCfg["token"])
	assert.Equal(t, config.DefaultMasheryURL, masheryCfg["url"])

	exportCfg := section(t, dump, "export")
	assert.Equal(t, "FromFile", exportCfg["sheet"])
	assert.Equal(t, "namespaced", exportCfg["columns"])

	smtpCfg := section(t, section(t, dump, "notify"), "smtp")
	assert.Equal(t, "hunt****", smtpCfg["password"])
}

func TestConfigCommandEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "export.env")
	require.Nil(t, os.WriteFile(envFile, []byte("EXPORT_SHEET=FromEnvFile\t\nLOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("EXPORT_SHEET")
		os.Unsetenv("LOG_LEVEL")
	})

	dump := dumpConfig(t, "--pathConfig", dir, "--envFile", envFile)
	assert.Equal(t, "FromEnvFile", section(t, dump, "export")["sheet"])
	assert.Equal(t, "debug", section(t, dump, "log")["level"])
}

func TestVersionFlag(t *testing.T) {
	c, out := newTestRootCmd(t, "--version")
	require.Nil(t, c.Execute())
	assert.Contains(t, out.String(), GetVersion())
}

func TestGetVersion(t *testing.T) {
	defer func(v, sha string) { BuildVersion, BuildCommitSha = v, sha }(BuildVersion, BuildCommitSha)

	BuildVersion, BuildCommitSha = "", ""
	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "dev", userAgentVersion())

	BuildVersion, BuildCommitSha = "1.2.0", "abc123"
	assert.Equal(t, "1.2.0-abc123", GetVersion())
	assert.Equal(t, "1.2.0", userAgentVersion())
}

func TestEffectiveConfigMasking(t *testing.T) {
	viper.Reset()
	viper.Set("mashery.token", "abcdefghijkl")
	viper.Set("mashery.timeout", 30*time.Second)
	viper.Set("custom.apiSecret", "short")

	settings := effectiveConfig([]string{"token", "secret"})
	assert.Equal(t, "abcd****", settings["mashery"].(map[string]interface{})["token"])
	assert.Equal(t, "30s", settings["mashery"].(map[string]interface{})["timeout"])
	assert.Equal(t, "****", settings["custom"].(map[string]interface{})["apisecret"])
}

func TestErrorCode(t *testing.T) {
	aborted := export.ErrExportAborted.FormatError(context.Canceled)
	assert.Equal(t, 1602, errorCode(aborted))
	assert.Equal(t, 1602, errorCode(fmt.Errorf("run: %w", aborted)))

	nested := export.ErrWriteWorkbook.FormatError("out.xlsx", ErrConfigFile.FormatError("bad"))
	assert.Equal(t, 1601, errorCode(nested))

	assert.Equal(t, 0, errorCode(errors.New("plain")))
	assert.Equal(t, 0, errorCode(mashery.UnauthorizedError{}))
}

func TestNotifyChecksWorkbook(t *testing.T) {
	c, _ := newTestRootCmd(t)
	viper.Set("notify.webhook.url", "https://hooks.test/export")
	notifyCfg, err := config.ParseNotificationConfig(c.props)
	require.Nil(t, err)
	cfg := &config.Config{Notify: notifyCfg}

	dir := t.TempDir()
	workbook := filepath.Join(dir, "catalog.xlsx")
	f := excelize.NewFile()
	require.Nil(t, f.SaveAs(workbook))
	require.Nil(t, f.Close())

	replaced := filepath.Join(dir, "replaced.xlsx")
	require.Nil(t, os.WriteFile(replaced, []byte("maintenance page\n"), 0600))

	webhook := &api.MockHTTPClient{ResponseCode: 200}
	c.notifyClient = webhook

	c.notify(context.Background(), cfg, "mashery_export/dev", &export.Result{OutputFile: replaced})
	assert.Empty(t, webhook.Requests)

	c.notify(context.Background(), cfg, "mashery_export/dev", &export.Result{OutputFile: workbook})
	require.Len(t, webhook.Requests, 1)
	assert.Equal(t, workbook, gjson.GetBytes(webhook.Requests[0].Body, "outputFile").String())
}
