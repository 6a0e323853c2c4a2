package util

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// LoadEnvFromFile - Loads the environment variables from a dotenv file.
// Variables already set in the environment are not overridden.
func LoadEnvFromFile(filename string) error {
	if filename == "" {
		return nil
	}

	// gotenv trims trailing spaces but not TAB chars, so lines are filtered first
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := filterLines(f)
	return gotenv.Apply(bytes.NewReader(buf.Bytes()))
}

func filterLines(r io.Reader) bytes.Buffer {
	var lf = []byte("\n")

	var out bytes.Buffer
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		trimmedLine := strings.TrimRight(scanner.Text(), " \t")
		out.Write([]byte(trimmedLine))
		out.Write(lf)
	}

	return out
}
