package audit

import (
	"log"

	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
)

// Actor identifies who performed an action. A nil ID means the action had
// no authenticated principal (e.g. a failed login).
type Actor struct {
	Role auth.Role
	ID   *uint
}

type Event struct {
	Actor    Actor
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.Actor,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// Audit must never break the API; drop when the queue is full.
		log.Println("audit queue full, dropping event")
	}
}
