package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/minichain/foundation/logger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_EventHandler(t *testing.T) {
	t.Log("Given the need to log blockchain events.")
	{
		t.Logf("\tTest 0:\tWhen writing an event to a file and a sink.")
		{
			path := filepath.Join(t.TempDir(), "node.log")

			log, err := logger.New("TEST", path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct a logger: %s", failed, err)
			}

			var got []string
			ev := logger.EventHandler(log, "00000000-0000-0000-0000-000000000000", func(s string) {
				got = append(got, s)
			})

			ev("state: GenerateBlock: txs[%d]", 2)
			log.Sync()

			if len(got) != 1 || got[0] != "state: GenerateBlock: txs[2]" {
				t.Fatalf("\t%s\tTest 0:\tShould hand the formatted event to the sink: %v", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould hand the formatted event to the sink.", success)

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the log: %s", failed, err)
			}

			line := string(data)
			if !strings.Contains(line, `"service":"TEST"`) || !strings.Contains(line, "txs[2]") {
				t.Fatalf("\t%s\tTest 0:\tShould write the event with the service name: %s", failed, line)
			}
			t.Logf("\t%s\tTest 0:\tShould write the event with the service name.", success)
		}
	}
}
