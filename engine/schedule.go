package engine

import "github.com/Nrich-sunny/moviecrawler/collect"

// Scheduler 保存待爬取的请求，按放入的顺序取出
type Scheduler interface {
	Push(...*collect.Request)
	Pull() *collect.Request // 队列为空时返回 nil
	Len() int
}

// Queue 单线程使用的先进先出队列，队列中已有的相同请求不会重复放入
type Queue struct {
	reqQueue []*collect.Request
	pending  map[string]struct{}
}

func NewSchedule() *Queue {
	return &Queue{pending: map[string]struct{}{}}
}

func (s *Queue) Push(reqs ...*collect.Request) {
	if s.pending == nil {
		s.pending = map[string]struct{}{}
	}
	for _, req := range reqs {
		key := req.Unique()
		if _, ok := s.pending[key]; ok {
			continue
		}
		s.pending[key] = struct{}{}
		s.reqQueue = append(s.reqQueue, req)
	}
}

func (s *Queue) Pull() *collect.Request {
	if len(s.reqQueue) == 0 {
		return nil
	}
	r := s.reqQueue[0]
	s.reqQueue[0] = nil
	s.reqQueue = s.reqQueue[1:]
	delete(s.pending, r.Unique())
	return r
}

func (s *Queue) Len() int {
	return len(s.reqQueue)
}
