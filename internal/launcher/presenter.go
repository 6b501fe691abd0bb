package launcher

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// lanUnavailable is printed in place of the LAN URL when no address
// could be resolved.
const lanUnavailable = "not available"

// LocalURL returns the loopback endpoint for the given port.
func LocalURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// LANURL returns the endpoint peers on the local network should use.
func LANURL(ip string, port int) string {
	return fmt.Sprintf("http://%s:%d", ip, port)
}

// WriteAccessInfo prints the access summary for a launch. lanIP may be
// empty, in which case the LAN line is marked unavailable. This runs
// before the server starts, so the operator can share the LAN URL while
// the server is still binding its port.
func WriteAccessInfo(w io.Writer, port int, lanIP string) {
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "Permiso de Viaje - servidor local")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Local: %s\n", LocalURL(port))
	if lanIP != "" {
		fmt.Fprintf(w, "  LAN:   %s\n", LANURL(lanIP, port))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Comparta la URL LAN con otras máquinas de la misma red.")
	} else {
		fmt.Fprintf(w, "  LAN:   %s\n", lanUnavailable)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presione Ctrl+C para detener el servidor.")
	fmt.Fprintln(w)
}
