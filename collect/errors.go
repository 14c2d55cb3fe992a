package collect

import (
	"errors"
	"fmt"
)

// StatusError 服务端返回了非 2xx 的状态码
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.Url)
}

// NetworkError 连接失败、超时或读取响应体失败
type NetworkError struct {
	Url string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Url, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsStatusError 判断错误是否由非 2xx 状态码导致
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsNetworkError 判断错误是否由网络层导致
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
