package infra

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"request-governor/governance/domain"
)

// Queue limita quantas tasks rodam ao mesmo tempo e enfileira o excedente em
// ordem de chegada. Não há prioridade: a cabeça da fila sempre é a próxima.
type Queue struct {
	mu      sync.Mutex
	max     int
	active  int
	pending *list.List // *job
	// lastStart fecha quando o último job admitido invocou sua task.
	lastStart chan struct{}
}

type job struct {
	ctx  context.Context
	task domain.Task
	fut  *domain.Future
	// elem != nil enquanto o job está na fila.
	elem *list.Element
	stop func() bool
	// prev é o lastStart do job admitido antes deste; started é o deste.
	prev    <-chan struct{}
	started chan struct{}
}

// NewQueue cria uma fila com capacidade `max` (mínimo 1).
func NewQueue(max int) *Queue {
	if max < 1 {
		max = 1
	}
	return &Queue{max: max, pending: list.New()}
}

func (q *Queue) Max() int { return q.max }

func (q *Queue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

// Submit implementa domain.Throttle.
//
// Um job ainda na fila cujo ctx é cancelado sai da fila sem nunca ser invocado.
// Um job em execução recebe o mesmo ctx e deve observá-lo por conta própria.
func (q *Queue) Submit(ctx context.Context, task domain.Task) *domain.Future {
	fut := domain.NewFuture()
	if task == nil {
		fut.Complete(nil, domain.ErrNilTask)
		return fut
	}
	if err := ctx.Err(); err != nil {
		fut.Complete(nil, err)
		return fut
	}

	j := &job{ctx: ctx, task: task, fut: fut}

	q.mu.Lock()
	if q.active < q.max {
		q.active++
		q.admit(j)
		q.mu.Unlock()
		go q.run(j)
		return fut
	}
	j.elem = q.pending.PushBack(j)
	j.stop = context.AfterFunc(ctx, func() { q.cancel(j) })
	q.mu.Unlock()
	return fut
}

func (q *Queue) cancel(j *job) {
	q.mu.Lock()
	if j.elem == nil {
		// já saiu da fila (começou ou foi descartado por release)
		q.mu.Unlock()
		return
	}
	q.pending.Remove(j.elem)
	j.elem = nil
	q.mu.Unlock()

	j.fut.Complete(nil, j.ctx.Err())
}

// admit encadeia o job na ordem de início. Deve ser chamado com q.mu travado.
func (q *Queue) admit(j *job) {
	j.prev = q.lastStart
	j.started = make(chan struct{})
	q.lastStart = j.started
}

// run só invoca a task depois que o job admitido antes dele invocou a sua,
// então as tasks começam na ordem de admissão mesmo com max > 1.
func (q *Queue) run(j *job) {
	defer q.release()

	if j.prev != nil {
		<-j.prev
		j.prev = nil
	}
	close(j.started)

	val, err := invoke(j)
	j.fut.Complete(val, err)
}

func invoke(j *job) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrTaskPanicked, r)
		}
	}()
	return j.task(j.ctx)
}

// release passa a vaga para a cabeça da fila ou devolve a vaga.
func (q *Queue) release() {
	var dropped []*job

	q.mu.Lock()
	var next *job
	for q.pending.Len() > 0 {
		j := q.pending.Remove(q.pending.Front()).(*job)
		j.elem = nil
		if j.stop != nil {
			j.stop()
		}
		if j.ctx.Err() != nil {
			dropped = append(dropped, j)
			continue
		}
		next = j
		q.admit(next)
		break
	}
	if next == nil {
		q.active--
	}
	q.mu.Unlock()

	for _, j := range dropped {
		j.fut.Complete(nil, j.ctx.Err())
	}
	if next != nil {
		go q.run(next)
	}
}
