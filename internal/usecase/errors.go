package usecase

// Códigos de erro registrados no ProcessingRecord. O processador não muda
// a estratégia de retry por tipo — o código existe para diagnóstico.
const (
	CodeFetchFailed         = "FETCH_FAILED"
	CodeEmptyContent        = "EMPTY_CONTENT"
	CodeNoLeadExtractable   = "NO_LEAD_EXTRACTABLE"
	CodeNoEligibleRecipient = "NO_ELIGIBLE_RECIPIENT"
	CodeReplyFailed         = "REPLY_FAILED"
	CodeAckFailed           = "ACK_FAILED"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
