package internal

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DecodeRows decodes rows with up to workers goroutines. The result keeps
// the input order. workers <= 1 decodes sequentially.
func DecodeRows(ctx context.Context, d *Decoder, rows []MessageRow, workers int) ([]MessageRecord, error) {
	records := make([]MessageRecord, len(rows))

	if workers <= 1 || len(rows) < 2 {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records[i] = d.BuildDetail(row)
		}
		return records, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = d.BuildDetail(rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
