package circulation

import "errors"

const (
	KindNotFound   = "not_found"
	KindConflict   = "conflict"
	KindValidation = "validation"
	KindRepository = "repository"
)

type ErrResponse struct {
	Code    int    `json:"error_code"`
	Kind    string `json:"error_kind"`
	Message string `json:"error_message"`
}

func (e ErrResponse) Error() string {
	return e.Message
}

var ErrResponseBookNotFound = ErrResponse{100, KindNotFound, "book not found"}
var ErrResponseBorrowerNotFound = ErrResponse{101, KindNotFound, "borrower not found"}
var ErrResponseLoanNotFound = ErrResponse{102, KindNotFound, "loan not found"}
var ErrResponseNoOpenLoanForBook = ErrResponse{103, KindNotFound, "no open loan for this book"}
var ErrResponseBookAlreadyBorrowed = ErrResponse{110, KindConflict, "book is already borrowed"}
var ErrResponseLoanAlreadyReturned = ErrResponse{111, KindConflict, "loan is already returned"}
var ErrResponseEmailAlreadyRegistered = ErrResponse{112, KindConflict, "email is already registered to a borrower"}
var ErrResponseBlankFields = ErrResponse{120, KindValidation, "all required fields must be filled correctly."}
var ErrResponseDueDateMissing = ErrResponse{121, KindValidation, "due date must be set at checkout"}
var ErrResponseReturnDateMissing = ErrResponse{122, KindValidation, "return date must be set"}
var ErrResponseInvalidDateRange = ErrResponse{123, KindValidation, "start date must not be after end date"}
var ErrResponseInvalidMonth = ErrResponse{124, KindValidation, "month must be between 1 and 12"}
var ErrResponseInvalidThreshold = ErrResponse{125, KindValidation, "threshold days must not be negative"}
var ErrResponseIdInvalidFormat = ErrResponse{126, KindValidation, "the endpoint is not a valid format ID. Must be a uuid"}
var ErrResponseEntryInvalidJSON = ErrResponse{127, KindValidation, "invalid json request."}
var ErrResponseFromRepository = ErrResponse{130, KindRepository, "error from the repository: "}

func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

func IsConflict(err error) bool {
	return isKind(err, KindConflict)
}

func IsValidation(err error) bool {
	return isKind(err, KindValidation)
}

func isKind(err error, kind string) bool {
	var errR ErrResponse
	if errors.As(err, &errR) {
		return errR.Kind == kind
	}
	return false
}
