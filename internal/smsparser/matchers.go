package smsparser

import (
	"regexp"
	"strings"

	"mpesa-insights/internal/models"
)

const (
	amountGroup = `ksh\s*([\d,]+(?:\.\d{1,2})?)`
	phoneGroup  = `((?:0|\+?254)\d{9})`
)

var (
	sendPattern = regexp.MustCompile(
		`(?i)` + amountGroup + `\s+sent to\s+(.+?)(?:\s+` + phoneGroup + `)?(?:\s+on\b|[.,])`)

	receivePattern = regexp.MustCompile(
		`(?i)you have received\s+` + amountGroup + `\s+from\s+(.+?)(?:\s+` + phoneGroup + `)?(?:\s+on\b|[.,])`)

	paybillPattern = regexp.MustCompile(
		`(?i)` + amountGroup + `\s+paid to\s+(?:(.+?)\s+)?paybill\s+(?:number\s+)?(\d+)` +
			`(?:[.,]?\s+(?:for\s+)?account(?:\s+number)?\s+([A-Za-z0-9/#-]+))?`)

	tillPattern = regexp.MustCompile(
		`(?i)` + amountGroup + `\s+paid to\s+(.+?)[.,]?\s+(?:buy goods\s+)?till(?:\s+number)?\s+(\d+)`)

	amountPattern = regexp.MustCompile(`(?i)` + amountGroup)

	withdrawPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)withdraw\s+` + amountGroup + `\s+from\s+(?:agent\s+)?(\d+)(?:\s*-\s*([^.]+?))?(?:\s+new\b|\.|$)`),
		regexp.MustCompile(`(?i)` + amountGroup + `\s+withdrawn from\s+(?:agent\s+)?(\d+)(?:\s*-\s*([^.]+?))?(?:\s+new\b|\.|$)`),
	}

	givePattern = regexp.MustCompile(
		`(?i)give\s+` + amountGroup + `\s+cash to\s+(?:(\d+)\s*-\s*)?(.+?)(?:\s+-?\s*deposited|\s+on\b|\.)`)

	depositAgentPattern = regexp.MustCompile(`(?i)(?:at|from)\s+agent\s+(\d+)(?:\s*-\s*([^.]+?))?(?:\s+new\b|\.|$)`)
)

// matchSendMoney covers person-to-person transfers: "Ksh1,000.00 sent to
// JOHN DOE 0712345678 on ...".
func (p *Parser) matchSendMoney(text string) (models.Transaction, bool) {
	groups := sendPattern.FindStringSubmatch(text)
	if groups == nil {
		return models.Transaction{}, false
	}

	amount, ok := parseAmount(groups[1])
	if !ok {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Amount:       amount,
		Direction:    models.DirectionExpense,
		MerchantName: cleanParty(groups[2]),
		PhoneNumber:  groups[3],
	}, true
}

// matchReceiveMoney covers incoming transfers: "You have received Ksh500.00
// from JANE DOE 0722000000 on ...".
func (p *Parser) matchReceiveMoney(text string) (models.Transaction, bool) {
	groups := receivePattern.FindStringSubmatch(text)
	if groups == nil {
		return models.Transaction{}, false
	}

	amount, ok := parseAmount(groups[1])
	if !ok {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Amount:       amount,
		Direction:    models.DirectionIncome,
		MerchantName: cleanParty(groups[2]),
		PhoneNumber:  groups[3],
	}, true
}

// matchPaybill covers bill payments: "Ksh300.00 paid to KPLC TOKENS paybill
// 888880 for account 12345" and the bare "paid to Paybill 400200, account
// number 12345" form where no merchant name is present.
func (p *Parser) matchPaybill(text string) (models.Transaction, bool) {
	groups := paybillPattern.FindStringSubmatch(text)
	if groups == nil {
		return models.Transaction{}, false
	}

	amount, ok := parseAmount(groups[1])
	if !ok {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Amount:        amount,
		Direction:     models.DirectionExpense,
		MerchantName:  cleanParty(groups[2]),
		PaybillNumber: groups[3],
		AccountNumber: groups[4],
	}, true
}

// matchTill covers buy-goods payments: "Ksh1,250.00 paid to NAIVAS
// SUPERMARKET till number 567890 on ...".
func (p *Parser) matchTill(text string) (models.Transaction, bool) {
	groups := tillPattern.FindStringSubmatch(text)
	if groups == nil {
		return models.Transaction{}, false
	}

	amount, ok := parseAmount(groups[1])
	if !ok {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Amount:       amount,
		Direction:    models.DirectionExpense,
		MerchantName: cleanParty(groups[2]),
		TillNumber:   groups[3],
	}, true
}

// matchAirtime covers airtime purchases. The shape has no counterparty; the
// first currency amount in the message is the purchase amount.
func (p *Parser) matchAirtime(text string) (models.Transaction, bool) {
	if !strings.Contains(strings.ToLower(text), "airtime") {
		return models.Transaction{}, false
	}

	groups := amountPattern.FindStringSubmatch(text)
	if groups == nil {
		return models.Transaction{}, false
	}

	amount, ok := parseAmount(groups[1])
	if !ok {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Amount:    amount,
		Direction: models.DirectionExpense,
	}, true
}

// matchWithdraw covers agent withdrawals in both verb orders: "Withdraw
// Ksh2,000.00 from 123456 - AGENT NAME" and "Ksh2,000.00 withdrawn from
// agent 123456".
func (p *Parser) matchWithdraw(text string) (models.Transaction, bool) {
	for _, pattern := range withdrawPatterns {
		groups := pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		amount, ok := parseAmount(groups[1])
		if !ok {
			return models.Transaction{}, false
		}

		return models.Transaction{
			Amount:        amount,
			Direction:     models.DirectionExpense,
			AccountNumber: groups[2],
			MerchantName:  cleanParty(groups[3]),
		}, true
	}

	return models.Transaction{}, false
}

// matchDeposit covers agent deposits: "Give Ksh5,000.00 cash to 654321 -
// AGENT NAME ... deposited to your account" and the shorter "Ksh5,000.00
// deposited to your M-PESA account at agent 654321" form.
func (p *Parser) matchDeposit(text string) (models.Transaction, bool) {
	if !strings.Contains(strings.ToLower(text), "deposited to") {
		return models.Transaction{}, false
	}

	if groups := givePattern.FindStringSubmatch(text); groups != nil {
		amount, ok := parseAmount(groups[1])
		if !ok {
			return models.Transaction{}, false
		}

		return models.Transaction{
			Amount:        amount,
			Direction:     models.DirectionIncome,
			AccountNumber: groups[2],
			MerchantName:  cleanParty(groups[3]),
		}, true
	}

	groups := amountPattern.FindStringSubmatch(text)
	if groups == nil {
		return models.Transaction{}, false
	}

	amount, ok := parseAmount(groups[1])
	if !ok {
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		Amount:    amount,
		Direction: models.DirectionIncome,
	}

	if agent := depositAgentPattern.FindStringSubmatch(text); agent != nil {
		tx.AccountNumber = agent[1]
		tx.MerchantName = cleanParty(agent[2])
	}

	return tx, true
}
