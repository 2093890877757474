package checker

type Config struct {
	// Workers is the number of goroutines sweeping large agendas.
	// Values below 2 keep the sweep sequential.
	Workers int `yaml:"workers"`

	// ParallelThreshold is the agenda size starting from which
	// the parallel sweep is used.
	ParallelThreshold int `yaml:"parallelThreshold"`

	// MaxAppointments limits agenda size, zero means no limit.
	MaxAppointments int `yaml:"maxAppointments"`
}
