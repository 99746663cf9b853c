package profiling

import (
	"net"
	"net/http"

	// Registers the /debug/pprof handlers on the default mux
	_ "net/http/pprof"

	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/util/panics"
)

// Start serves pprof on all interfaces at port, in the background. The root
// path redirects to the profile index. A server failure is logged and the
// caller keeps running.
func Start(port string, log *logger.Logger) {
	listenAddr := net.JoinHostPort("", port)
	mux := http.DefaultServeMux
	mux.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))

	spawn := panics.GoroutineWrapperFunc(log)
	spawn(func() {
		log.Infof("Profiling fixtures at http://%s/debug/pprof", listenAddr)
		err := http.ListenAndServe(listenAddr, mux)
		log.Errorf("Profile server on %s stopped: %s", listenAddr, err)
	})
}
