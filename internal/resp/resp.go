package resp

// Outcome es el resultado de un handler. Decide la línea de estado que se
// escribe y el contador de clase (2xx/4xx/5xx) que se incrementa.
type Outcome int

const (
	Ok Outcome = iota
	NotFound
	ServerError
)

// Class agrupa códigos por su dígito de centenas.
type Class int

const (
	Class2xx Class = iota
	Class4xx
	Class5xx
)

// Status devuelve el código HTTP asociado.
func (o Outcome) Status() int {
	switch o {
	case Ok:
		return 200
	case NotFound:
		return 404
	default:
		return 500
	}
}

// Class devuelve la clase de respuesta para los contadores.
func (o Outcome) Class() Class {
	switch o {
	case Ok:
		return Class2xx
	case NotFound:
		return Class4xx
	default:
		return Class5xx
	}
}

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case NotFound:
		return "not_found"
	default:
		return "server_error"
	}
}

func (c Class) String() string {
	switch c {
	case Class2xx:
		return "2xx"
	case Class4xx:
		return "4xx"
	default:
		return "5xx"
	}
}
