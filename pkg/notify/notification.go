package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/export"
	"github.com/tidwall/gjson"
)

// ExportNotification - the summary posted to the webhook and used to fill in the mail templates
type ExportNotification struct {
	RunID       string `json:"runId"`
	OutputFile  string `json:"outputFile"`
	Sheet       string `json:"sheet"`
	ContentType string `json:"contentType"`
	Packages    int64  `json:"packages"`
	Plans       int64  `json:"plans"`
	Services    int64  `json:"services"`
	Endpoints   int64  `json:"endpoints"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	Requests    int64  `json:"requests"`
	Duration    string `json:"duration"`
	DurationMs  int64  `json:"durationMs"`
}

// NewExportNotification - builds the notification for a finished export
func NewExportNotification(result *export.Result) *ExportNotification {
	return &ExportNotification{
		RunID:       result.RunID,
		OutputFile:  result.OutputFile,
		Sheet:       result.Sheet,
		ContentType: xlsxContentType,
		Packages:    result.Packages,
		Plans:       result.Plans,
		Services:    result.Services,
		Endpoints:   result.Endpoints,
		Rows:        result.Rows,
		Columns:     result.Columns,
		Requests:    result.Requests,
		Duration:    result.Duration.Round(time.Millisecond).String(),
		DurationMs:  result.Duration.Milliseconds(),
	}
}

// UpdateTemplate - replaces each ${field} with the value of the matching json attribute
func (n *ExportNotification) UpdateTemplate(template string) string {
	data, err := json.Marshal(n)
	if err != nil {
		return template
	}

	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		template = strings.ReplaceAll(template, fmt.Sprintf("${%s}", key.String()), value.String())
		return true
	})
	return template
}
