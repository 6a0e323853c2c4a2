package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type mimeMap map[string]string

func (m mimeMap) String() string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, m[key]))
	}
	return strings.Join(lines, "\n")
}

const zipContentType = "application/zip"

// CheckWorkbook - sniffs the export file and fails unless it still holds a zip based workbook,
// the file may have been replaced or truncated between the write and the notification
func CheckWorkbook(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ErrWorkbookUnreadable.FormatError(path, err)
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(xlsxContentType) || m.Is(zipContentType) {
			return nil
		}
	}
	return ErrNotAWorkbook.FormatError(path, mtype.String())
}
