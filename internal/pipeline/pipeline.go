// Package pipeline runs one batch sync: read the message batch, parse it
// concurrently, funnel the results through a single serialized upsert path,
// then hand off to insights assembly.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/models"
	"mpesa-insights/internal/msgsource"
	"mpesa-insights/internal/smsparser"
	"mpesa-insights/internal/store"
)

// Sequential parsing below this batch size; the pool overhead is not worth
// it for small batches.
const concurrencyThreshold = 100

// Options tune a sync run.
type Options struct {
	// Workers caps the parse worker pool. Zero means runtime.NumCPU.
	Workers int

	// RetryAttempts bounds source reads. At least one attempt is made.
	RetryAttempts int

	// RetryBackoff is the base delay between source read attempts; it
	// doubles each retry.
	RetryBackoff time.Duration
}

// Result summarizes one sync run.
type Result struct {
	RunID    string
	Received int
	Filtered int
	Parsed   int
	Ingested int
}

// Runner executes batch sync runs.
type Runner struct {
	source msgsource.Source
	filter *msgsource.SenderFilter
	parser *smsparser.Parser
	store  store.TransactionStore
	logger logging.Logger
}

// NewRunner wires a sync runner.
func NewRunner(source msgsource.Source, filter *msgsource.SenderFilter, parser *smsparser.Parser, txStore store.TransactionStore, logger logging.Logger) *Runner {
	return &Runner{
		source: source,
		filter: filter,
		parser: parser,
		store:  txStore,
		logger: logger,
	}
}

// Run performs one sync: read, filter, parse, ingest. Cancellation mid-run
// leaves the store valid; upserts are idempotent, so a retried run simply
// re-upserts already-present records. Transient source failures are retried
// with exponential backoff; exhaustion is a terminal error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.New().String()}
	logger := r.logger.WithField("run_id", result.RunID)

	logger.Info("Starting sync run")

	messages, err := r.readWithRetry(ctx, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("message source unavailable after %d attempts: %w", attempts(opts), err)
	}
	result.Received = len(messages)

	filtered := r.filter.Apply(messages)
	result.Filtered = len(filtered)

	transactions := r.parseBatch(ctx, filtered, opts)
	result.Parsed = len(transactions)

	// Single-writer ingestion stage: parsing fans out, writes do not.
	for _, tx := range transactions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := r.store.Upsert(tx); err != nil {
			return result, fmt.Errorf("failed to ingest receipt %s: %w", tx.ReceiptNumber, err)
		}
		result.Ingested++
	}

	logger.Info("Sync run complete",
		logging.Field{Key: "received", Value: result.Received},
		logging.Field{Key: "filtered", Value: result.Filtered},
		logging.Field{Key: "parsed", Value: result.Parsed},
		logging.Field{Key: "ingested", Value: result.Ingested})

	return result, nil
}

func attempts(opts Options) int {
	if opts.RetryAttempts < 1 {
		return 1
	}
	return opts.RetryAttempts
}

func (r *Runner) readWithRetry(ctx context.Context, opts Options, logger logging.Logger) ([]msgsource.RawMessage, error) {
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= attempts(opts); attempt++ {
		messages, err := r.source.Read(ctx)
		if err == nil {
			return messages, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < attempts(opts) {
			logger.WithError(err).Warn("Message source read failed, retrying",
				logging.Field{Key: "attempt", Value: attempt},
				logging.Field{Key: "backoff", Value: backoff.String()})

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}

	return nil, lastErr
}

// parseBatch parses messages with a bounded worker pool. Each message is
// independent, so the only coordination is collecting results; parsed
// transactions keep the batch's encounter order.
func (r *Runner) parseBatch(ctx context.Context, messages []msgsource.RawMessage, opts Options) []models.Transaction {
	if len(messages) < concurrencyThreshold {
		return r.parseSequential(messages)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type indexed struct {
		index int
		tx    models.Transaction
		ok    bool
	}

	jobs := make(chan int, workers)
	results := make(chan indexed, len(messages))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tx, ok := r.parseMessage(messages[i])
				results <- indexed{index: i, tx: tx, ok: ok}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range messages {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	parsed := make([]*models.Transaction, len(messages))
	for result := range results {
		if result.ok {
			tx := result.tx
			parsed[result.index] = &tx
		}
	}

	var transactions []models.Transaction
	for _, tx := range parsed {
		if tx != nil {
			transactions = append(transactions, *tx)
		}
	}
	return transactions
}

func (r *Runner) parseSequential(messages []msgsource.RawMessage) []models.Transaction {
	var transactions []models.Transaction
	for _, message := range messages {
		if tx, ok := r.parseMessage(message); ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions
}

// parseMessage parses one message and stamps the transaction with the
// message's delivery time.
func (r *Runner) parseMessage(message msgsource.RawMessage) (models.Transaction, bool) {
	tx, ok := r.parser.Parse(message.Body)
	if !ok {
		return models.Transaction{}, false
	}
	tx.Timestamp = message.Timestamp()
	return tx, true
}
