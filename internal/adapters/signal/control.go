package signal

import "github.com/dkeye/rooms/internal/core"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, core.ControlMessage{Type: core.TypePong})
}
