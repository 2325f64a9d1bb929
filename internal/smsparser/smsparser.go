// Package smsparser extracts structured transactions from mobile-money
// confirmation messages. Matching is an explicit ordered chain of shape
// matchers; the first matcher whose grammar covers the message wins.
package smsparser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/models"
)

// Receipt tokens are two letters, two digits, then six to ten alphanumerics.
var receiptPattern = regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}[A-Z0-9]{6,10}\b`)

// matcher binds a transaction kind to its shape grammar.
type matcher struct {
	kind  models.Kind
	match func(text string) (models.Transaction, bool)
}

// Parser turns raw message text into zero-or-one transaction records.
// Parse is pure and safe for concurrent use.
type Parser struct {
	detector *clues.Detector
	logger   logging.Logger
	matchers []matcher
}

// NewParser creates a Parser that populates clue sets via the given detector.
func NewParser(detector *clues.Detector, logger logging.Logger) *Parser {
	p := &Parser{
		detector: detector,
		logger:   logger,
	}

	// Priority order. The verb phrases make the grammars mutually
	// exclusive for well-formed messages; ordering only decides
	// pathological inputs that satisfy more than one shape.
	p.matchers = []matcher{
		{models.KindSendMoney, p.matchSendMoney},
		{models.KindReceiveMoney, p.matchReceiveMoney},
		{models.KindPaybill, p.matchPaybill},
		{models.KindTill, p.matchTill},
		{models.KindAirtime, p.matchAirtime},
		{models.KindWithdraw, p.matchWithdraw},
		{models.KindDeposit, p.matchDeposit},
	}

	return p
}

// Parse attempts each shape matcher in priority order and returns the first
// full match. The second return value is false when the message is not a
// confirmed mobile-money event or matches no shape; that is a normal
// outcome, not an error.
func (p *Parser) Parse(text string) (models.Transaction, bool) {
	// Only confirmed events are recorded.
	if !strings.Contains(strings.ToLower(text), "confirmed") {
		return models.Transaction{}, false
	}

	for _, m := range p.matchers {
		tx, ok := m.match(text)
		if !ok {
			continue
		}

		receipt, ok := extractReceipt(text)
		if !ok {
			// A shape match without a receipt token cannot satisfy the
			// uniqueness invariant, so the record is rejected rather
			// than stored under a placeholder identity.
			p.logger.Debug("Discarding shape match without receipt token",
				logging.Field{Key: "kind", Value: string(m.kind)})
			return models.Transaction{}, false
		}

		tx.ReceiptNumber = receipt
		tx.Kind = m.kind
		tx.Clues = p.detector.DetectClues(tx.MerchantName, text)
		return tx, true
	}

	return models.Transaction{}, false
}

// extractReceipt locates the shared receipt-token grammar anywhere in the
// message.
func extractReceipt(text string) (string, bool) {
	token := receiptPattern.FindString(text)
	if token == "" {
		return "", false
	}
	return token, true
}

// parseAmount converts a matched currency fragment ("1,000.00") to a
// decimal magnitude. Unparseable amounts reject the record instead of
// degrading to zero, so data-quality problems surface as missing records
// rather than silent zeros.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	cleaned = strings.TrimRight(cleaned, ".")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, false
	}

	return amount, true
}

// cleanParty trims the punctuation the grammars leave on counterparty names.
func cleanParty(name string) string {
	return strings.Trim(strings.TrimSpace(name), ".,-")
}
