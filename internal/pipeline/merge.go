package pipeline

import (
	"regexp"

	"order-extractor/internal/email"
	"order-extractor/internal/llm"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// acceptRegex finalizes a high-confidence pattern result without touching
// the LLM
func (p *Pipeline) acceptRegex(state *emailState) *email.RoutingResult {
	return &email.RoutingResult{
		Outcome:    email.OutcomeExtracted,
		Record:     state.attempt.Record,
		Confidence: state.attempt.Confidence,
		Method:     email.MethodRegex,
		Trace: email.RoutingTrace{
			Classification:  state.cls,
			Extractor:       state.extractor.Name(),
			RegexConfidence: state.attempt.Confidence,
			Decision:        "accept_regex",
		},
	}
}

// resolveHybrid merges an LLM gap-fill into a mid-confidence regex result.
// Regex fields win when present; the LLM only fills gaps. On backend failure
// the regex result stands unchanged.
func (p *Pipeline) resolveHybrid(state *emailState, analysis *llm.EmailAnalysis, err error) *email.RoutingResult {
	trace := email.RoutingTrace{
		Classification:  state.cls,
		Extractor:       state.extractor.Name(),
		RegexConfidence: state.attempt.Confidence,
		Decision:        "hybrid",
		LLMUsed:         true,
	}

	if err != nil || analysis == nil || !analysis.IsOrder || analysis.OrderData == nil {
		trace.Fallback = true
		if err != nil {
			trace.LLMError = err.Error()
		}
		return &email.RoutingResult{
			Outcome:    email.OutcomeExtracted,
			Record:     state.attempt.Record,
			Confidence: state.attempt.Confidence,
			Method:     email.MethodRegex,
			Trace:      trace,
		}
	}

	record := state.attempt.Record
	fillGaps(record, analysis.OrderData)
	record.Status = mergeStatus(record.Status, statusMatched(state.attempt), analysis.OrderData.Status)

	confidence := state.attempt.Confidence
	if analysis.OrderData.Confidence > confidence {
		confidence = analysis.OrderData.Confidence
	}

	return &email.RoutingResult{
		Outcome:    email.OutcomeExtracted,
		Record:     record,
		Confidence: confidence,
		Method:     email.MethodHybrid,
		Trace:      trace,
	}
}

// resolveAILed handles the low-confidence tier: the LLM performs the full
// extraction and the regex attempt only survives as a last-resort fallback
func (p *Pipeline) resolveAILed(state *emailState, analysis *llm.EmailAnalysis, err error) *email.RoutingResult {
	trace := email.RoutingTrace{
		Classification: state.cls,
		Decision:       "ai_led",
		LLMUsed:        true,
	}
	if state.extractor != nil {
		trace.Extractor = state.extractor.Name()
		trace.RegexConfidence = state.attempt.Confidence
	}

	if err == nil && analysis != nil && analysis.IsOrder && analysis.OrderData != nil {
		record := recordFromAI(analysis.OrderData, state.cls.Language, state.msg)
		return &email.RoutingResult{
			Outcome:    email.OutcomeExtracted,
			Record:     record,
			Confidence: analysis.OrderData.Confidence,
			Method:     email.MethodAI,
			Trace:      trace,
		}
	}

	// A clean denial is a definitive answer, not a failure; a weak regex
	// attempt does not override it
	if err == nil && analysis != nil && !analysis.IsOrder {
		return &email.RoutingResult{Outcome: email.OutcomeNotAnOrder, Trace: trace}
	}

	if err != nil {
		trace.LLMError = err.Error()
	}

	// Backend failure or unusable response: the regex attempt is the last
	// resort
	if state.attempt != nil && state.attempt.Confidence > 0 {
		trace.Fallback = true
		return &email.RoutingResult{
			Outcome:    email.OutcomeExtracted,
			Record:     state.attempt.Record,
			Confidence: state.attempt.Confidence,
			Method:     email.MethodRegex,
			Trace:      trace,
		}
	}
	return &email.RoutingResult{Outcome: email.OutcomeFailed, Trace: trace}
}

// recordFromAI converts the backend's wire shape into an extraction record,
// validating everything the model claims
func recordFromAI(data *llm.OrderData, lang string, msg *email.EmailMessage) *email.ExtractionRecord {
	record := &email.ExtractionRecord{
		OrderNumber:    data.OrderNumber,
		Retailer:       data.Retailer,
		Currency:       data.Currency,
		Status:         parseStatus(data.Status),
		TrackingNumber: data.TrackingNumber,
		Carrier:        data.Carrier,
		Language:       lang,
	}

	if data.Amount != nil && *data.Amount >= 0 {
		amount := *data.Amount
		record.Amount = &amount
	}

	record.OrderDate = msg.Date.Format("2006-01-02")
	if isoDateRe.MatchString(data.OrderDate) {
		record.OrderDate = data.OrderDate
	}
	if isoDateRe.MatchString(data.EstimatedDelivery) {
		record.EstimatedDelivery = data.EstimatedDelivery
	}

	for _, item := range data.Items {
		if item.Name == "" || item.Quantity <= 0 || item.Price < 0 {
			continue
		}
		record.Items = append(record.Items, email.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return record
}

// fillGaps copies AI fields into the record only where the regex pass found
// nothing
func fillGaps(record *email.ExtractionRecord, data *llm.OrderData) {
	if record.OrderNumber == "" {
		record.OrderNumber = data.OrderNumber
	}
	if record.Amount == nil && data.Amount != nil && *data.Amount >= 0 {
		amount := *data.Amount
		record.Amount = &amount
	}
	if record.Currency == "" {
		record.Currency = data.Currency
	}
	if record.EstimatedDelivery == "" && isoDateRe.MatchString(data.EstimatedDelivery) {
		record.EstimatedDelivery = data.EstimatedDelivery
	}
	if record.TrackingNumber == "" {
		record.TrackingNumber = data.TrackingNumber
	}
	if record.Carrier == "" {
		record.Carrier = data.Carrier
	}
	if len(record.Items) == 0 {
		for _, item := range data.Items {
			if item.Name == "" || item.Quantity <= 0 || item.Price < 0 {
				continue
			}
			record.Items = append(record.Items, email.OrderItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
	}
}

// mergeStatus implements the status merge rule: the regex status wins unless
// it is only the default and the LLM found something more specific
func mergeStatus(regexStatus email.OrderStatus, regexMatched bool, aiStatus string) email.OrderStatus {
	if regexMatched {
		return regexStatus
	}
	if parsed, ok := validStatus(aiStatus); ok && parsed != email.StatusConfirmed {
		return parsed
	}
	return regexStatus
}

// statusMatched reports whether the regex attempt derived its status from an
// actual vocabulary match rather than the default
func statusMatched(attempt *email.ExtractionAttempt) bool {
	for _, field := range attempt.FieldsFilled {
		if field == "status" {
			return true
		}
	}
	return false
}

// missingFields lists the record fields the regex attempt left empty, which
// the hybrid tier asks the backend to fill
func missingFields(attempt *email.ExtractionAttempt) []string {
	record := attempt.Record
	var missing []string
	if record.OrderNumber == "" {
		missing = append(missing, "orderNumber")
	}
	if record.Amount == nil {
		missing = append(missing, "amount")
	}
	if record.EstimatedDelivery == "" {
		missing = append(missing, "estimatedDelivery")
	}
	if record.TrackingNumber == "" {
		missing = append(missing, "trackingNumber")
	}
	if record.Carrier == "" {
		missing = append(missing, "carrier")
	}
	if len(record.Items) == 0 {
		missing = append(missing, "items")
	}
	if !statusMatched(attempt) {
		missing = append(missing, "status")
	}
	return missing
}

func parseStatus(s string) email.OrderStatus {
	if status, ok := validStatus(s); ok {
		return status
	}
	return email.StatusConfirmed
}

func validStatus(s string) (email.OrderStatus, bool) {
	switch email.OrderStatus(s) {
	case email.StatusConfirmed, email.StatusShipped, email.StatusDelivered:
		return email.OrderStatus(s), true
	}
	return "", false
}
