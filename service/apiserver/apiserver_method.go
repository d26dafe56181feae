package apiserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/contract/farm"
)

// jrpc error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeIdentityError  = -32001
	CodeValidation     = -32002
	CodeFatalError     = -32003
)

func (s *APIServer) handleHTTP(c echo.Context) error {
	var req JRPCRequest
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return c.JSON(http.StatusOK, &JRPCResponse{
			JSONRPC: "2.0",
			Error:   &JRPCError{Code: CodeParseError, Message: err.Error()},
		})
	}
	res, ok := s.dispatch(&req)
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *APIServer) handleWebsocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read failed", "err", err)
			}
			return nil
		}
		var req JRPCRequest
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var res *JRPCResponse
		if err := dec.Decode(&req); err != nil {
			res = &JRPCResponse{
				JSONRPC: "2.0",
				Error:   &JRPCError{Code: CodeParseError, Message: err.Error()},
			}
		} else {
			res, _ = s.dispatch(&req)
		}
		if err := conn.WriteJSON(res); err != nil {
			s.log.Debug("websocket write failed", "err", err)
			return nil
		}
	}
}

func (s *APIServer) dispatch(req *JRPCRequest) (res *JRPCResponse, ok bool) {
	s.Lock()
	closed := s.closed
	s.Unlock()
	if closed {
		return &JRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &JRPCError{Code: CodeInternalError, Message: "server closed"},
		}, false
	}

	job := &jobRequest{
		req:   req,
		resCh: make(chan *JRPCResponse, 1),
	}
	defer func() {
		if recover() != nil {
			res = &JRPCResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &JRPCError{Code: CodeInternalError, Message: "server closed"},
			}
			ok = false
		}
	}()
	s.reqCh <- job
	return <-job.resCh, true
}

func (s *APIServer) worker() {
	defer s.closeWg.Done()
	for job := range s.reqCh {
		job.resCh <- s.handleJRPC(job.req)
	}
}

func (s *APIServer) handleJRPC(req *JRPCRequest) *JRPCResponse {
	res := &JRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}
	args := strings.SplitN(req.Method, ".", 2)
	if len(args) != 2 {
		res.Error = &JRPCError{Code: CodeInvalidRequest, Message: ErrInvalidMethod.Error()}
		return res
	}
	s.Lock()
	sub, has := s.subMap[args[0]]
	s.Unlock()
	if !has {
		res.Error = &JRPCError{Code: CodeMethodNotFound, Message: ErrInvalidMethod.Error()}
		return res
	}
	fn, has := sub.get(args[1])
	if !has {
		res.Error = &JRPCError{Code: CodeMethodNotFound, Message: ErrInvalidMethod.Error()}
		return res
	}
	ret, err := fn(req.ID, NewArgument(req.Params))
	if err != nil {
		res.Error = &JRPCError{Code: errorCode(err), Message: err.Error()}
		return res
	}
	res.Result = ret
	return res
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInvalidArgumentIndex),
		errors.Is(err, ErrInvalidArgumentType):
		return CodeInvalidParams
	case farm.IsIdentityError(err):
		return CodeIdentityError
	case farm.IsValidationError(err):
		return CodeValidation
	case farm.IsFatal(err):
		return CodeFatalError
	default:
		return CodeInternalError
	}
}
