package llm

import (
	"fmt"
	"strings"
)

// maxPromptBody caps the email body embedded in a prompt
const maxPromptBody = 4000

// buildAnalysisPrompt creates the extraction prompt shared by all backends.
// The response schema matches the wire contract exactly so both providers
// parse through the same lenient path.
func buildAnalysisPrompt(content *EmailContent) string {
	var b strings.Builder

	b.WriteString(`Analyze this email and determine whether it is a purchase-order email (order confirmation, shipping notification, or delivery notification). Return ONLY a JSON response, no prose.

`)
	fmt.Fprintf(&b, "From: %s\nSubject: %s\nBody: %s\n\n", content.From, content.Subject, truncateBody(content.Body))

	if len(content.Fields) > 0 {
		fmt.Fprintf(&b, "Extract ONLY these fields, leave all others empty: %s\n\n", strings.Join(content.Fields, ", "))
	}

	b.WriteString(`Rules:
1. Newsletters, marketing mail, password resets and job alerts are NOT orders: return {"isOrder": false}.
2. Amounts use the locale of the email: "1.234,56" means 1234.56 in German/Dutch/French emails.
3. Dates must be returned as YYYY-MM-DD. Omit a date rather than guessing.
4. status is one of "confirmed", "shipped", "delivered".
5. confidence reflects how completely and unambiguously the fields were found, between 0 and 1.

Return JSON format:
{
  "isOrder": true,
  "orderData": {
    "orderNumber": "90276634",
    "retailer": "coolblue",
    "amount": 89.99,
    "currency": "EUR",
    "orderDate": "2024-03-12",
    "status": "confirmed",
    "estimatedDelivery": "2024-03-15",
    "trackingNumber": "3SABCD1234567",
    "carrier": "postnl",
    "items": [{"name": "product name", "quantity": 1, "price": 89.99}],
    "confidence": 0.9
  },
  "debugInfo": {"language": "nl", "emailType": "order_confirmation"}
}`)

	return b.String()
}

// truncateBody caps the body on a rune boundary so the prompt never carries
// a split multi-byte character
func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= maxPromptBody {
		return body
	}
	return string(runes[:maxPromptBody]) + "..."
}
