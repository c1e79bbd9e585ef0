package razorpay

import "fmt"

// PaymentStatusCaptured is the only payment status that means funds were settled.
const PaymentStatusCaptured = "captured"

// CallbackMethodGet is the wire value for a browser redirect callback.
const CallbackMethodGet = "get"

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Notify struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
}

// PaymentLinkRequest is the body of POST /v1/payment_links. Amount is in minor units.
type PaymentLinkRequest struct {
	Amount         int64    `json:"amount"`
	Currency       string   `json:"currency"`
	Customer       Customer `json:"customer"`
	Notify         Notify   `json:"notify"`
	CallbackURL    string   `json:"callback_url"`
	CallbackMethod string   `json:"callback_method"`
}

type PaymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type Payment struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
	Method   string `json:"method"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type ErrorKind string

const (
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindBadRequest     ErrorKind = "bad_request"
	ErrorKindServer         ErrorKind = "server"
	ErrorKindTransport      ErrorKind = "transport"
	ErrorKindResponse       ErrorKind = "response"
)

// Error is returned for every failed gateway call.
type Error struct {
	Kind        ErrorKind
	StatusCode  int
	Code        string
	Description string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("razorpay %s error (%d %s): %s", e.Kind, e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("razorpay %s error: %s", e.Kind, e.Description)
}

type errorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
