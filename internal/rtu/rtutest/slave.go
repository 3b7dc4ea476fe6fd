// internal/rtu/rtutest/slave.go

// Package rtutest provides a scripted Modbus RTU slave for exercising the
// master against hwtest.ScriptedPort.
package rtutest

import (
	"encoding/binary"

	"github.com/tamzrod/humidity-actuator/internal/rtu"
)

// Slave answers read-registers requests addressed to ID from Regs.
type Slave struct {
	ID   byte
	Regs map[uint16]uint16

	// Exception, when non-zero, is returned instead of data.
	Exception byte

	// Mangle, when set, may rewrite each response before it is sent.
	Mangle func(resp []byte) []byte

	// Silent makes the slave ignore requests.
	Silent bool

	Requests []rtu.Request
}

// Handle is meant for hwtest.ScriptedPort.OnWrite.
func (s *Slave) Handle(frame []byte) [][]byte {
	req, err := rtu.ParseReadRequest(frame)
	if err != nil || req.SlaveID() != s.ID || s.Silent {
		return nil
	}
	s.Requests = append(s.Requests, req)

	var resp []byte
	if s.Exception != 0 {
		resp = Exception(s.ID, req.Function(), s.Exception)
	} else {
		regs := make([]uint16, req.Count())
		for i := range regs {
			regs[i] = s.Regs[req.Start()+uint16(i)]
		}
		resp = Response(s.ID, req.Function(), regs...)
	}
	if s.Mangle != nil {
		resp = s.Mangle(resp)
	}
	return [][]byte{resp}
}

// Response encodes a normal read-registers response.
func Response(id, fn byte, regs ...uint16) []byte {
	b := []byte{id, fn, byte(2 * len(regs))}
	for _, r := range regs {
		b = binary.BigEndian.AppendUint16(b, r)
	}
	return rtu.AppendCRC(b)
}

// Exception encodes an exception response.
func Exception(id, fn, code byte) []byte {
	return rtu.AppendCRC([]byte{id, fn | 0x80, code})
}
