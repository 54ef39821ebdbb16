// Package journal persists granted trials to an append-only CSV file
// and rebuilds the idempotency index from it at startup.
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/frkn-dev/trialgate/internal/models"
)

// FileJournal appends one comma-joined line per granted trial. The
// file is opened fresh per append with O_APPEND so the kernel
// serializes concurrent single-line writes.
type FileJournal struct {
	path string
}

// New creates a journal writing to the given path. The file is created
// on first append.
func New(path string) *FileJournal {
	return &FileJournal{path: path}
}

// Append writes one `timestamp,email,telegram,sub_id,env` line and
// syncs it before returning. No escaping is performed; commas are
// stripped from the telegram handle so a handle cannot break the
// record format.
func (j *FileJournal) Append(entry *models.JournalEntry) error {
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	telegram := strings.ReplaceAll(entry.Telegram, ",", "")

	line := fmt.Sprintf("%s,%s,%s,%s,%s\n",
		entry.Timestamp.Format(time.RFC3339),
		entry.Email,
		telegram,
		entry.SubID,
		entry.Env,
	)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write journal line: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	return nil
}

// Load reads the journal and returns email -> first-grant timestamp.
// A missing file yields an empty index. Lines with fewer than two
// fields or an unparsable timestamp are skipped.
func Load(path string) (map[string]time.Time, error) {
	index := make(map[string]time.Time)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return index, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 2 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, fields[0])
		if err != nil {
			continue
		}
		index[fields[1]] = ts
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return index, nil
}
