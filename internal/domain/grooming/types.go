package grooming

// ServiceType es el servicio contratado.
// @Enum bath, grooming, bath_grooming, nail, ear, full
type ServiceType string

const (
	ServiceBath         ServiceType = "bath"
	ServiceGrooming     ServiceType = "grooming"
	ServiceBathGrooming ServiceType = "bath_grooming"
	ServiceNail         ServiceType = "nail"
	ServiceEar          ServiceType = "ear"
	ServiceFull         ServiceType = "full"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceBath, ServiceGrooming, ServiceBathGrooming, ServiceNail, ServiceEar, ServiceFull:
		return true
	}
	return false
}

// Status del agendamiento.
// @Enum scheduled, arrived, bathing, grooming, ready, completed, cancelled
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusArrived   Status = "arrived"
	StatusBathing   Status = "bathing"
	StatusGrooming  Status = "grooming"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// nextStatus es la tabla de transiciones de Advance. Los terminales no tienen entrada.
var nextStatus = map[Status]Status{
	StatusScheduled: StatusArrived,
	StatusArrived:   StatusBathing,
	StatusBathing:   StatusGrooming,
	StatusGrooming:  StatusReady,
	StatusReady:     StatusCompleted,
}

func (s Status) Valid() bool {
	_, ok := nextStatus[s]
	return ok || s.Terminal()
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next devuelve el siguiente estado; false en terminales.
func (s Status) Next() (Status, bool) {
	n, ok := nextStatus[s]
	return n, ok
}
