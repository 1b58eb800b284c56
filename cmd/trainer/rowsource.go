package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/craftsangjae/recohub-go/internal/trainer"
)

type jsonlRow struct {
	Item  int64   `json:"item"`
	Users []int64 `json:"users"`
}

// fileRowSource implements trainer.RowSource over a newline-delimited
// JSON file of {"item": int64, "users": [int64]} rows, standing in for a
// real warehouse export so the daemon can be driven end to end from a
// local file.
type fileRowSource struct {
	scanner *bufio.Scanner
}

func newFileRowSource(r io.Reader) *fileRowSource {
	return &fileRowSource{scanner: bufio.NewScanner(r)}
}

// Next scans and decodes the next line. A line that fails to decode is
// reported as an error and consumed: the next call moves on to the
// following line. A scan error is sticky: every later call reports it again.
func (f *fileRowSource) Next(ctx context.Context) (trainer.Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return trainer.Row{}, false, err
	}
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return trainer.Row{}, false, fmt.Errorf("scan: %w", err)
		}
		return trainer.Row{}, false, nil
	}

	var row jsonlRow
	if err := json.Unmarshal(f.scanner.Bytes(), &row); err != nil {
		return trainer.Row{}, false, fmt.Errorf("decode row: %w", err)
	}
	return trainer.Row{Item: row.Item, Users: row.Users}, true, nil
}
