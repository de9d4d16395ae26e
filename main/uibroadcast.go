/*
	Copyright (c) 2024 The baro Authors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	uibroadcast.go: Push every reading to the websocket clients on /readings.
*/

package main

import (
	"sync"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/net/websocket"
)

const (
	broadcastQueueLen = 1024
	clientWriteWait   = time.Second
)

type uibroadcaster struct {
	mu       sync.Mutex
	clients  []*websocket.Conn
	messages chan []byte
	dropped  uint64
}

func NewUIBroadcaster() *uibroadcaster {
	u := &uibroadcaster{messages: make(chan []byte, broadcastQueueLen)}
	go u.writer()
	return u
}

// Send queues msg for every client and reports false if the queue is full.
func (u *uibroadcaster) Send(msg []byte) bool {
	select {
	case u.messages <- msg:
		return true
	default:
		u.mu.Lock()
		u.dropped++
		u.mu.Unlock()
		return false
	}
}

func (u *uibroadcaster) AddSocket(conn *websocket.Conn) {
	u.mu.Lock()
	u.clients = append(u.clients, conn)
	u.mu.Unlock()
}

func (u *uibroadcaster) Clients() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.clients)
}

// Dropped returns the number of messages lost to a full queue.
func (u *uibroadcaster) Dropped() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.dropped
}

// writer delivers queued messages. A client that can't take a message within
// clientWriteWait is disconnected. Writes happen without holding mu.
func (u *uibroadcaster) writer() {
	for msg := range u.messages {
		u.mu.Lock()
		clients := append([]*websocket.Conn(nil), u.clients...)
		u.mu.Unlock()

		var dead []*websocket.Conn
		for _, conn := range clients {
			if !u.deliver(conn, msg) {
				conn.Close()
				dead = append(dead, conn)
			}
		}
		if len(dead) > 0 {
			u.remove(dead)
		}
	}
}

func (u *uibroadcaster) remove(dead []*websocket.Conn) {
	u.mu.Lock()
	defer u.mu.Unlock()
	alive := u.clients[:0]
	for _, conn := range u.clients {
		if !slices.Contains(dead, conn) {
			alive = append(alive, conn)
		}
	}
	u.clients = alive
}

func (u *uibroadcaster) deliver(conn *websocket.Conn, msg []byte) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(clientWriteWait)); err != nil {
		return false
	}
	_, err := conn.Write(msg)
	return err == nil
}

// handleReadingsConnection registers a websocket client and holds the connection
// open until the client goes away. Anything the client sends is discarded.
func handleReadingsConnection(conn *websocket.Conn) {
	readingsBroadcaster.AddSocket(conn)
	buf := make([]byte, 512)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}
