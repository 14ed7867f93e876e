package domain

// Result is the uniform envelope returned by every service operation. An
// operation never surfaces a raw error to its caller; failures are folded
// into the envelope.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Ok returns a successful Result.
func Ok() Result {
	return Result{Success: true}
}

// Fail returns a failed Result carrying the error message.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// ResultOf is a Result that additionally carries a payload.
type ResultOf[T any] struct {
	Result
	Data T `json:"data"`
}

// OkOf returns a successful ResultOf wrapping data.
func OkOf[T any](data T) ResultOf[T] {
	return ResultOf[T]{Result: Ok(), Data: data}
}

// FailOf returns a failed ResultOf carrying the error message.
func FailOf[T any](msg string) ResultOf[T] {
	return ResultOf[T]{Result: Fail(msg)}
}
