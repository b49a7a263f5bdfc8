package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Listener receives window-system changes. Methods run on the X event loop
// goroutine and should return quickly.
type Listener interface {
	ClientsChanged()
	ActiveWindowChanged(win xproto.Window)
	WindowStateChanged(win xproto.Window)
	WindowConfigured(win xproto.Window)
	ScreenChanged()
}

// Watcher subscribes to root and client property changes and RandR screen
// changes, forwarding them to a Listener.
type Watcher struct {
	conn     *Connection
	listener Listener

	mu      sync.Mutex
	clients map[xproto.Window]struct{}
}

// Watch starts delivering events to l. Events only flow while EventLoop runs.
func (c *Connection) Watch(l Listener) (*Watcher, error) {
	w := &Watcher{
		conn:     c,
		listener: l,
		clients:  make(map[xproto.Window]struct{}),
	}

	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return nil, err
	}
	xevent.PropertyNotifyFun(w.onRootProperty).Connect(c.XUtil, c.Root)

	if err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange).Check(); err != nil {
		return nil, err
	}
	xevent.HookFun(w.onEvent).Connect(c.XUtil)

	w.RefreshClients()
	return w, nil
}

// RefreshClients listens for state changes on clients not yet watched and
// forgets clients that went away.
func (w *Watcher) RefreshClients() {
	clients, err := w.conn.ClientWindows()
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	current := make(map[xproto.Window]struct{}, len(clients))
	for _, win := range clients {
		current[win] = struct{}{}
		if _, ok := w.clients[win]; ok {
			continue
		}
		if err := xwindow.New(w.conn.XUtil, win).Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
			continue
		}
		xevent.PropertyNotifyFun(w.onClientProperty).Connect(w.conn.XUtil, win)
		xevent.ConfigureNotifyFun(w.onClientConfigure).Connect(w.conn.XUtil, win)
	}
	for win := range w.clients {
		if _, ok := current[win]; !ok {
			xevent.Detach(w.conn.XUtil, win)
		}
	}
	w.clients = current
}

func (w *Watcher) onRootProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	switch atomName(xu, ev.Atom) {
	case "_NET_CLIENT_LIST":
		w.RefreshClients()
		w.listener.ClientsChanged()
	case "_NET_ACTIVE_WINDOW":
		active, err := w.conn.ActiveWindow()
		if err != nil {
			return
		}
		w.listener.ActiveWindowChanged(active)
	case "_NET_WORKAREA":
		w.listener.ScreenChanged()
	}
}

func (w *Watcher) onClientProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	if atomName(xu, ev.Atom) == "_NET_WM_STATE" {
		w.listener.WindowStateChanged(ev.Window)
	}
}

func (w *Watcher) onClientConfigure(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
	w.listener.WindowConfigured(ev.Window)
}

// onEvent catches RandR events, which xevent has no typed callbacks for.
func (w *Watcher) onEvent(_ *xgbutil.XUtil, event interface{}) bool {
	if _, ok := event.(randr.ScreenChangeNotifyEvent); ok {
		w.listener.ScreenChanged()
	}
	return true
}

func atomName(xu *xgbutil.XUtil, atom xproto.Atom) string {
	name, err := xprop.AtomName(xu, atom)
	if err != nil {
		return ""
	}
	return name
}
