package blockjoin

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Positions maps a block height to the transaction indices requested
// within that block. Order within each slice does not matter — Join
// always emits transactions ordered by (height ASC, index ASC); the
// order in which indices are supplied is not kept.
type Positions map[uint64][]uint64

// Join fetches every height in positions from store and extracts the
// requested transactions, in ascending height order and ascending index
// order within a block. A height missing from block storage is logged
// and skipped rather than failing the whole query (spec §4.5/§7).
func Join(ctx context.Context, store BlockStore, positions Positions, log *zap.SugaredLogger) ([]Transaction, error) {
	heights := make([]uint64, 0, len(positions))
	for h := range positions {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })

	var out []Transaction
	for _, height := range heights {
		blk, ok, err := store.Fetch(ctx, height)
		if err != nil {
			return nil, err
		}
		if !ok {
			if log != nil {
				log.Warnw("block missing during join, skipping", "height", height)
			}
			continue
		}

		wanted := make(map[uint64]bool, len(positions[height]))
		for _, idx := range positions[height] {
			wanted[idx] = true
		}
		indices := make([]uint64, 0, len(wanted))
		for idx := range wanted {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

		byIndex := make(map[uint64]Transaction, len(blk.Transactions))
		for _, tx := range blk.Transactions {
			byIndex[tx.Index] = tx
		}
		for _, idx := range indices {
			if tx, ok := byIndex[idx]; ok {
				out = append(out, tx)
			}
		}
	}
	return out, nil
}

// JoinFiltered is Join's variant for GetTransactions: rather than a
// fixed index set per height, every transaction in the block is a
// candidate and pred decides inclusion. This mirrors
// getTransactionsFromBlock's predicate-based variant in the source
// executor, used when the index set is "all transactions in the block"
// and filtering happens on transaction content (hash membership,
// creator identity) rather than position.
func JoinFiltered(ctx context.Context, store BlockStore, heights []uint64, pred func(Transaction) bool, log *zap.SugaredLogger) ([]Transaction, error) {
	sorted := append([]uint64(nil), heights...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var out []Transaction
	for _, height := range sorted {
		blk, ok, err := store.Fetch(ctx, height)
		if err != nil {
			return nil, err
		}
		if !ok {
			if log != nil {
				log.Warnw("block missing during join, skipping", "height", height)
			}
			continue
		}
		for _, tx := range blk.Transactions {
			if pred(tx) {
				out = append(out, tx)
			}
		}
	}
	return out, nil
}
