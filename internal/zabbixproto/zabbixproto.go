/*
Copyright 2026 The k8s-zabbix-agent Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package zabbixproto implements the Zabbix sender (trapper) wire
// protocol: a 5-byte header, a little-endian uint32 payload length, and a
// JSON body. No ready-made Go client for this protocol was available, so
// this is built directly on net/encoding/json/encoding/binary.
package zabbixproto

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// header is the fixed 5-byte preamble: "ZBXD" + protocol version 0x01.
var header = []byte{'Z', 'B', 'X', 'D', 0x01}

// Item is one (host, key, value) data point, optionally timestamped.
type Item struct {
	Host  string      `json:"host"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Clock int64       `json:"clock,omitempty"`
}

// request is the trapper "sender data" request envelope.
type request struct {
	Request string `json:"request"`
	Data    []Item `json:"data"`
	Clock   int64  `json:"clock,omitempty"`
}

// Response is the trapper's reply envelope; Info is a human-readable
// summary like "processed: 3; failed: 0; total: 3; seconds spent: 0.000018".
type Response struct {
	Response string `json:"response"`
	Info     string `json:"info"`
}

// Summary parses the "processed: N; failed: M; ..." Info string.
// Returns zero values if the string doesn't match the expected shape.
func (r Response) Summary() (processed, failed, total int) {
	_, _ = fmt.Sscanf(r.Info, "processed: %d; failed: %d; total: %d", &processed, &failed, &total)
	return processed, failed, total
}

// Client sends batches of Items to a Zabbix trapper over a single
// short-lived TCP connection per call, matching how zabbix_sender itself
// behaves: connect, write one framed request, read one framed response,
// disconnect.
type Client struct {
	Addr    string
	Timeout time.Duration
}

// NewClient builds a Client for addr ("host:port"), combining the
// configured zabbix_server and zabbix_port.
func NewClient(addr string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{Addr: addr, Timeout: timeout}
}

// Send transmits items in a single trapper request and returns the
// parsed response.
func (c *Client) Send(items []Item) (Response, error) {
	body, err := json.Marshal(request{Request: "sender data", Data: items})
	if err != nil {
		return Response{}, fmt.Errorf("zabbixproto: marshal request: %w", err)
	}

	conn, err := net.DialTimeout("tcp", c.Addr, c.Timeout)
	if err != nil {
		return Response{}, fmt.Errorf("zabbixproto: dial %s: %w", c.Addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.Timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return Response{}, fmt.Errorf("zabbixproto: set deadline: %w", err)
	}

	if err := writeFrame(conn, body); err != nil {
		return Response{}, fmt.Errorf("zabbixproto: write: %w", err)
	}

	respBody, err := readFrame(conn)
	if err != nil {
		return Response{}, fmt.Errorf("zabbixproto: read: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return Response{}, fmt.Errorf("zabbixproto: unmarshal response: %w", err)
	}
	return resp, nil
}

func writeFrame(w io.Writer, body []byte) error {
	buf := bytes.NewBuffer(nil)
	buf.Write(header)
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(body))); err != nil {
		return err
	}
	buf.Write(body)
	_, err := w.Write(buf.Bytes())
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	preamble := make([]byte, len(header)+8)
	if _, err := io.ReadFull(r, preamble); err != nil {
		return nil, fmt.Errorf("read preamble: %w", err)
	}
	if !bytes.Equal(preamble[:len(header)], header) {
		return nil, fmt.Errorf("unexpected preamble %q", preamble[:len(header)])
	}
	length := binary.LittleEndian.Uint64(preamble[len(header):])
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
