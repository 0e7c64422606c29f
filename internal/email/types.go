package email

import (
	"time"
)

// ContentProvider defines the interface for the mailbox client collaborator.
// The extraction core never fetches mail itself.
type ContentProvider interface {
	// Search returns message metadata matching a provider-specific query
	Search(query string) ([]EmailMessage, error)

	// GetMessage retrieves the full content of a specific message
	GetMessage(id string) (*EmailMessage, error)

	// HealthCheck verifies the provider connection is working
	HealthCheck() error

	// Close cleans up resources
	Close() error
}

// EmailMessage represents an email message as delivered by the provider
type EmailMessage struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`

	// Content in different formats
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body"`
}

// OrderStatus is the lifecycle stage derived from an order email
type OrderStatus string

const (
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// OrderItem is a single line item extracted from an order email
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ExtractionRecord is the canonical structured result of parsing one email.
// Amount is a pointer so a missing amount is distinguishable from zero.
type ExtractionRecord struct {
	OrderNumber       string      `json:"order_number,omitempty"`
	Retailer          string      `json:"retailer"`
	Amount            *float64    `json:"amount,omitempty"`
	Currency          string      `json:"currency"`
	OrderDate         string      `json:"order_date"` // YYYY-MM-DD
	Status            OrderStatus `json:"status"`
	EstimatedDelivery string      `json:"estimated_delivery,omitempty"` // YYYY-MM-DD
	TrackingNumber    string      `json:"tracking_number,omitempty"`
	Carrier           string      `json:"carrier,omitempty"`
	Items             []OrderItem `json:"items,omitempty"`
	Confidence        float64     `json:"confidence"`
	Language          string      `json:"language"`
}

// ClassificationResult is the transient outcome of the pre-filter pass.
// Produced fresh per email, never persisted.
type ClassificationResult struct {
	IsPotentialOrder bool                `json:"is_potential_order"`
	Confidence       float64             `json:"confidence"`
	Language         string              `json:"language"`
	MatchedRetailer  string              `json:"matched_retailer,omitempty"`
	Trace            ClassificationTrace `json:"trace"`
}

// ClassificationTrace records which vocabulary drove the decision
type ClassificationTrace struct {
	AcceptedPatterns []string `json:"accepted_patterns,omitempty"`
	RejectedPatterns []string `json:"rejected_patterns,omitempty"`
}

// ExtractionMethod identifies which path produced a result
type ExtractionMethod string

const (
	MethodRegex  ExtractionMethod = "regex"
	MethodAI     ExtractionMethod = "ai"
	MethodHybrid ExtractionMethod = "hybrid"
)

// ExtractionAttempt is a single extractor's result, consumed by the merger
type ExtractionAttempt struct {
	Record       *ExtractionRecord `json:"record,omitempty"`
	Confidence   float64           `json:"confidence"`
	Method       ExtractionMethod  `json:"method"`
	FieldsFilled []string          `json:"fields_filled,omitempty"`
}

// Outcome tags the terminal state of routing one email, replacing
// nil-vs-error overloading with an explicit result type
type Outcome string

const (
	OutcomeExtracted  Outcome = "extracted"
	OutcomeNotAnOrder Outcome = "not_an_order"
	OutcomeFailed     Outcome = "failed"
)

// RoutingResult is the terminal outcome of the hybrid router for one email
type RoutingResult struct {
	Outcome          Outcome           `json:"outcome"`
	Record           *ExtractionRecord `json:"record,omitempty"`
	Confidence       float64           `json:"confidence"`
	Method           ExtractionMethod  `json:"method,omitempty"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	Trace            RoutingTrace      `json:"trace"`
}

// RoutingTrace explains how the router reached its decision
type RoutingTrace struct {
	Classification  ClassificationResult `json:"classification"`
	Extractor       string               `json:"extractor,omitempty"`
	RegexConfidence float64              `json:"regex_confidence"`
	Decision        string               `json:"decision,omitempty"` // "accept_regex", "hybrid", "ai_led"
	LLMUsed         bool                 `json:"llm_used"`
	LLMError        string               `json:"llm_error,omitempty"`
	Fallback        bool                 `json:"fallback"` // LLM failed, regex result kept
}

// FilledFields lists the record fields that carry a value, in weight order
func (r *ExtractionRecord) FilledFields() []string {
	if r == nil {
		return nil
	}
	var fields []string
	if r.OrderNumber != "" {
		fields = append(fields, "order_number")
	}
	if r.Amount != nil {
		fields = append(fields, "amount")
	}
	if r.EstimatedDelivery != "" {
		fields = append(fields, "estimated_delivery")
	}
	if r.TrackingNumber != "" {
		fields = append(fields, "tracking_number")
	}
	return fields
}
