package core

// MemberSession is one connection a room frame is delivered to.
type MemberSession struct {
	SID    SessionID
	Signal SignalConnection
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// Publish queues data on every member without blocking. Members whose
// queue refused the frame are returned in Dropped.
func Publish(members []MemberSession, data Frame) PublishResult {
	res := PublishResult{}
	for _, m := range members {
		if err := m.Signal.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	return res
}
