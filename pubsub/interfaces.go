package pubsub

type Publisher interface {
	ID() string
	Emit(ev *Event) error
}
