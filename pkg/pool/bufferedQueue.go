package pool

type BufferedJobQueue chan Job

// Blocked reports whether putting another job would block
func (bq *BufferedJobQueue) Blocked() bool {
	return len(*bq) == cap(*bq)
}

// Pending is the number of queued jobs not yet picked up by a worker
func (bq *BufferedJobQueue) Pending() int {
	return len(*bq)
}
