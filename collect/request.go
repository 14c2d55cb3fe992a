package collect

import (
	"crypto/md5"
	"encoding/hex"
)

// Request 单个请求，对应榜单中的一页
type Request struct {
	Task   *Task
	Url    string
	Method string
	Page   int // 从 1 开始的页码
}

// Context 解析时的上下文
type Context struct {
	Body []byte
	Req  *Request
}

// Unique 请求的唯一标识码
func (r *Request) Unique() string {
	block := md5.Sum([]byte(r.Url + r.Method))
	return hex.EncodeToString(block[:])
}
