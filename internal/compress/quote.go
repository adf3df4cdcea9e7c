package compress

import (
	"encoding/json"

	"claimwire/internal/domain"
)

// CostBreakdown is the compact form of a fee breakdown:
// [gross, net, tax].
type CostBreakdown domain.CostBreakdown

func (c CostBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Gross, c.Net, c.Tax})
}

func (c *CostBreakdown) UnmarshalJSON(data []byte) error {
	elems, err := tuple("CostBreakdown", data, 3)
	if err != nil {
		return err
	}
	if err := element("CostBreakdown", "gross", elems[0], &c.Gross); err != nil {
		return err
	}
	if err := element("CostBreakdown", "net", elems[1], &c.Net); err != nil {
		return err
	}
	return element("CostBreakdown", "tax", elems[2], &c.Tax)
}

func validateQuote(record string, q domain.Quote) error {
	if err := requireAddress(record, "attesterAddress", q.AttesterAddress); err != nil {
		return err
	}
	if err := requireHash(record, "cTypeHash", q.CTypeHash); err != nil {
		return err
	}
	if q.Currency == "" {
		return missing(record, "currency")
	}
	if q.TermsAndConditions == "" {
		return missing(record, "termsAndConditions")
	}
	if q.Timeframe <= 0 {
		return invalid(record, "timeframe")
	}
	return nil
}

// Quote is the compact form of an unsigned quote:
// [attesterAddress, cTypeHash, cost, currency, termsAndConditions, timeframe].
type Quote domain.Quote

// CompressQuote validates required fields and returns the compact form.
func CompressQuote(q domain.Quote) (Quote, error) {
	if err := validateQuote("Quote", q); err != nil {
		return Quote{}, err
	}
	return Quote(q), nil
}

// DecompressQuote parses a compact quote tuple.
func DecompressQuote(data []byte) (domain.Quote, error) {
	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote(q), nil
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		q.AttesterAddress, q.CTypeHash, CostBreakdown(q.Cost),
		q.Currency, q.TermsAndConditions, q.Timeframe,
	})
}

func (q *Quote) UnmarshalJSON(data []byte) error {
	elems, err := tuple("Quote", data, 6)
	if err != nil {
		return err
	}
	return decodeQuoteElems("Quote", elems, (*domain.Quote)(q))
}

// decodeQuoteElems fills the six quote positions shared by Quote,
// QuoteAttesterSigned, and QuoteAgreement.
func decodeQuoteElems(record string, elems []json.RawMessage, q *domain.Quote) error {
	if err := element(record, "attesterAddress", elems[0], &q.AttesterAddress); err != nil {
		return err
	}
	if err := element(record, "cTypeHash", elems[1], &q.CTypeHash); err != nil {
		return err
	}
	var cost CostBreakdown
	if err := element(record, "cost", elems[2], &cost); err != nil {
		return err
	}
	q.Cost = domain.CostBreakdown(cost)
	if err := element(record, "currency", elems[3], &q.Currency); err != nil {
		return err
	}
	if err := element(record, "termsAndConditions", elems[4], &q.TermsAndConditions); err != nil {
		return err
	}
	return element(record, "timeframe", elems[5], &q.Timeframe)
}

// QuoteAttesterSigned is the compact form of a quote the attester committed
// to: the six quote positions plus [attesterSignature].
type QuoteAttesterSigned domain.QuoteAttesterSigned

// CompressQuoteAttesterSigned validates the quote and its signature and
// returns the compact form.
func CompressQuoteAttesterSigned(q domain.QuoteAttesterSigned) (QuoteAttesterSigned, error) {
	if err := validateQuote("QuoteAttesterSigned", q.Quote); err != nil {
		return QuoteAttesterSigned{}, err
	}
	if err := requireSignature("QuoteAttesterSigned", "attesterSignature", q.AttesterSignature); err != nil {
		return QuoteAttesterSigned{}, err
	}
	return QuoteAttesterSigned(q), nil
}

// DecompressQuoteAttesterSigned parses a compact attester-signed quote
// tuple.
func DecompressQuoteAttesterSigned(data []byte) (domain.QuoteAttesterSigned, error) {
	var q QuoteAttesterSigned
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.QuoteAttesterSigned{}, err
	}
	return domain.QuoteAttesterSigned(q), nil
}

func (q QuoteAttesterSigned) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		q.AttesterAddress, q.CTypeHash, CostBreakdown(q.Cost),
		q.Currency, q.TermsAndConditions, q.Timeframe,
		q.AttesterSignature,
	})
}

func (q *QuoteAttesterSigned) UnmarshalJSON(data []byte) error {
	elems, err := tuple("QuoteAttesterSigned", data, 7)
	if err != nil {
		return err
	}
	if err := decodeQuoteElems("QuoteAttesterSigned", elems[:6], &q.Quote); err != nil {
		return err
	}
	return element("QuoteAttesterSigned", "attesterSignature", elems[6], &q.AttesterSignature)
}

// QuoteAgreement is the compact form of a countersigned quote: the seven
// attester-signed positions plus [claimerSignature, rootHash].
type QuoteAgreement domain.QuoteAgreement

// CompressQuoteAgreement validates both signatures and the request binding
// and returns the compact form.
func CompressQuoteAgreement(q domain.QuoteAgreement) (QuoteAgreement, error) {
	if err := validateQuote("QuoteAgreement", q.Quote); err != nil {
		return QuoteAgreement{}, err
	}
	if err := requireSignature("QuoteAgreement", "attesterSignature", q.AttesterSignature); err != nil {
		return QuoteAgreement{}, err
	}
	if err := requireSignature("QuoteAgreement", "claimerSignature", q.ClaimerSignature); err != nil {
		return QuoteAgreement{}, err
	}
	if err := requireHash("QuoteAgreement", "rootHash", q.RootHash); err != nil {
		return QuoteAgreement{}, err
	}
	return QuoteAgreement(q), nil
}

// DecompressQuoteAgreement parses a compact quote agreement tuple.
func DecompressQuoteAgreement(data []byte) (domain.QuoteAgreement, error) {
	var q QuoteAgreement
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.QuoteAgreement{}, err
	}
	return domain.QuoteAgreement(q), nil
}

func (q QuoteAgreement) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		q.AttesterAddress, q.CTypeHash, CostBreakdown(q.Cost),
		q.Currency, q.TermsAndConditions, q.Timeframe,
		q.AttesterSignature, q.ClaimerSignature, q.RootHash,
	})
}

func (q *QuoteAgreement) UnmarshalJSON(data []byte) error {
	elems, err := tuple("QuoteAgreement", data, 9)
	if err != nil {
		return err
	}
	if err := decodeQuoteElems("QuoteAgreement", elems[:6], &q.Quote); err != nil {
		return err
	}
	if err := element("QuoteAgreement", "attesterSignature", elems[6], &q.AttesterSignature); err != nil {
		return err
	}
	if err := element("QuoteAgreement", "claimerSignature", elems[7], &q.ClaimerSignature); err != nil {
		return err
	}
	return element("QuoteAgreement", "rootHash", elems[8], &q.RootHash)
}
