package extractor

// BuildPrompt returns the instruction block sent to a text-completion
// provider. The schema mirrors domain.ExtractionResult so the response can be
// unmarshaled directly.
func BuildPrompt(documentText string) string {
	return `You are an extraction assistant. Extract structured fields from the provided document text.

Document text:

` + documentText + `

Return ONLY valid JSON with no markdown formatting, no code fences, and no explanation: just the raw JSON object, following this schema:
{
  "doc_type": "invoice | receipt | unknown",
  "invoice_number": "the invoice or transaction number, or null",
  "invoice_date": "the date in ISO format YYYY-MM-DD, or null",
  "total_amount": 0.0,
  "currency": "three-letter currency code (e.g., USD, EUR, GBP), or null"
}

Use null for any field that is not present in the document.`
}
