package properties

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestProperties() (*cobra.Command, Properties) {
	viper.Reset()
	rootCmd := &cobra.Command{
		Use: "test",
	}
	return rootCmd, NewProperties(rootCmd)
}

func TestPropertyDefinitions(t *testing.T) {
	rootCmd, props := newTestProperties()

	props.AddStringProperty("mashery.url", "https://api.mashery.com/v3/rest", "url")
	props.AddIntProperty("mashery.pageSize", 0, "page size")
	props.AddBoolProperty("mashery.ssl.insecureSkipVerify", false, "skip verify")
	props.AddDurationProperty("mashery.timeout", 60*time.Second, "timeout")
	props.AddStringSliceProperty("fields.service", []string{"id", "name", "version"}, "service fields")
	props.AddStringFlag("envFile", "env file")

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("masheryUrl"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("masheryPageSize"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("masherySslInsecureSkipVerify"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("masheryTimeout"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("fieldsService"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("envFile"))

	assert.Equal(t, "https://api.mashery.com/v3/rest", props.StringPropertyValue("mashery.url"))
	assert.Equal(t, 0, props.IntPropertyValue("mashery.pageSize"))
	assert.False(t, props.BoolPropertyValue("mashery.ssl.insecureSkipVerify"))
	assert.Equal(t, 60*time.Second, props.DurationPropertyValue("mashery.timeout"))
	assert.Equal(t, []string{"id", "name", "version"}, props.StringSlicePropertyValue("fields.service"))

	found, _ := props.StringFlagValue("envFile")
	assert.False(t, found)
}

func TestFlagOverrides(t *testing.T) {
	rootCmd, props := newTestProperties()

	props.AddStringProperty("export.file", "out.xlsx", "file")
	props.AddIntProperty("mashery.pageSize", 0, "page size")
	props.AddStringSliceProperty("fields.service", []string{"id"}, "service fields")
	props.AddStringFlag("envFile", "env file")

	err := rootCmd.ParseFlags([]string{"--exportFile", "custom.xlsx", "--masheryPageSize", "50", "--fieldsService", "id,name", "--envFile", "test.env"})
	assert.Nil(t, err)

	assert.Equal(t, "custom.xlsx", props.StringPropertyValue("export.file"))
	assert.Equal(t, 50, props.IntPropertyValue("mashery.pageSize"))
	assert.Equal(t, []string{"id", "name"}, props.StringSlicePropertyValue("fields.service"))

	found, val := props.StringFlagValue("envFile")
	assert.True(t, found)
	assert.Equal(t, "test.env", val)
}

func TestStringSliceFromString(t *testing.T) {
	_, props := newTestProperties()
	props.AddStringSliceProperty("fields.plan", []string{"id"}, "plan fields")

	viper.Set("fields.plan", "id, name ,status")
	assert.Equal(t, []string{"id", "name", "status"}, props.StringSlicePropertyValue("fields.plan"))

	viper.Set("fields.plan", "")
	assert.Equal(t, []string{}, props.StringSlicePropertyValue("fields.plan"))
}

func TestNameToFlagName(t *testing.T) {
	p := &properties{}
	assert.Equal(t, "masheryPageSize", p.nameToFlagName("mashery.pageSize"))
	assert.Equal(t, "notifySmtpFromAddress", p.nameToFlagName("notify.smtp.fromAddress"))
	assert.Equal(t, "log", p.nameToFlagName("log"))
}
