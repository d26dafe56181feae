package apiserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/logger"
	"github.com/meverselabs/farms/contract/farm"
	"github.com/meverselabs/farms/contract/token"
	"github.com/meverselabs/farms/core/backend"
	_ "github.com/meverselabs/farms/core/backend/buntdb_driver"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/store"
	"github.com/meverselabs/farms/service/apiserver"
)

var (
	programID    = common.Address{0x46, 0x41, 0x52, 0x4d}
	tokenAddr    = common.Address{0x54, 0x4f, 0x4b}
	manager      = common.Address{0x10}
	alice        = common.Address{0x21}
	funder       = common.Address{0x30}
	depositAsset = common.Address{0xd0}
	rewardAsset  = common.Address{0xe0}
)

type testServer struct {
	s     *apiserver.APIServer
	http  *httptest.Server
	clock interface {
		clockwork.Clock
		Advance(d time.Duration)
	}
	nextID int
}

func newTestServer(t *testing.T, allowMint bool) *testServer {
	back, err := backend.Create("buntdb", backend.MemoryPath)
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	st := store.NewStore(back, 64, clock, logger.Discard())
	deriver := derive.NewDeriver(programID)
	tok := token.NewTokenContract(tokenAddr, deriver)
	proc := farm.NewProcessor(st, farm.NewFarmContract(deriver, tok, logger.Discard()), logger.Discard())

	s := apiserver.NewAPIServer(4, logger.Discard())
	require.NoError(t, apiserver.RegisterFarm(s, proc))
	require.NoError(t, apiserver.RegisterToken(s, st, tok, allowMint))
	ts := &testServer{
		s:     s,
		http:  httptest.NewServer(s.Handler()),
		clock: clock,
	}
	t.Cleanup(func() {
		ts.http.Close()
		s.Close(context.Background())
		st.Close()
	})
	return ts
}

func (ts *testServer) call(t *testing.T, method string, params ...interface{}) *apiserver.JRPCResponse {
	ts.nextID++
	body, err := json.Marshal(&apiserver.JRPCRequest{
		JSONRPC: "2.0",
		ID:      ts.nextID,
		Method:  method,
		Params:  params,
	})
	require.NoError(t, err)
	res, err := http.Post(ts.http.URL+"/api/endpoints/http", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var ret apiserver.JRPCResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&ret))
	return &ret
}

func (ts *testServer) mustCall(t *testing.T, method string, params ...interface{}) map[string]interface{} {
	res := ts.call(t, method, params...)
	require.Nil(t, res.Error, "%s: %+v", method, res.Error)
	ret, _ := res.Result.(map[string]interface{})
	return ret
}

func TestFarmLifecycle(t *testing.T) {
	ts := newTestServer(t, true)

	ts.mustCall(t, "token.Mint", depositAsset.String(), alice.String(), "1000")
	ts.mustCall(t, "token.Mint", rewardAsset.String(), funder.String(), "1000")

	d := ts.mustCall(t, "farm.DeriveRewarder", manager.String())
	rewarder := ts.mustCall(t, "farm.Appoint", manager.String(), d["address"], d["bump"])
	assert.Equal(t, d["address"], rewarder["address"])

	end := uint64(ts.clock.Now().Unix()) + 100
	crop := ts.mustCall(t, "farm.Cultivate", manager.String(), 1, 0, 0, "10", end, depositAsset.String(), rewardAsset.String())
	assert.Equal(t, "0", crop["totalStaked"])

	ts.mustCall(t, "farm.Fund", manager.String(), 1, funder.String(), "500")
	ts.mustCall(t, "farm.Till", manager.String(), alice.String(), 1)
	ts.mustCall(t, "farm.Sow", manager.String(), alice.String(), 1, "400")

	ts.clock.Advance(10 * time.Second)

	res := ts.call(t, "farm.PendingReward", manager.String(), alice.String(), 1)
	require.Nil(t, res.Error)
	assert.Equal(t, "100", res.Result)

	receipt := ts.mustCall(t, "farm.Uproot", manager.String(), alice.String(), 1, "400")
	assert.Equal(t, "400", receipt["withdrawn"])
	assert.Equal(t, "100", receipt["reward"])
	assert.Empty(t, receipt["warning"])

	bal := ts.call(t, "token.BalanceOf", rewardAsset.String(), alice.String())
	require.Nil(t, bal.Error)
	assert.Equal(t, "100", bal.Result)

	res = ts.call(t, "farm.Collect", alice.String(), manager.String(), 1, alice.String())
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeIdentityError, res.Error.Code)
	res = ts.call(t, "farm.Recultivate", alice.String(), manager.String(), 1, 0, 0, "1000", end)
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeIdentityError, res.Error.Code)

	collected := ts.call(t, "farm.Collect", manager.String(), manager.String(), 1, manager.String())
	require.Nil(t, collected.Error)
	assert.Equal(t, "0", collected.Result)

	treasury := ts.mustCall(t, "farm.TreasuryBalances", manager.String(), 1)
	assert.Equal(t, "0", treasury["deposit"])
	assert.Equal(t, "400", treasury["reward"])
}

func TestErrorCodes(t *testing.T) {
	ts := newTestServer(t, false)

	res := ts.call(t, "farm.CropInfo", manager.String(), 1)
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeIdentityError, res.Error.Code)

	res = ts.call(t, "farm.CropInfo", "not-an-address", 1)
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeInvalidParams, res.Error.Code)

	res = ts.call(t, "farm.CropInfo", manager.String())
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeInvalidParams, res.Error.Code)

	res = ts.call(t, "farm.Unknown")
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeMethodNotFound, res.Error.Code)

	res = ts.call(t, "nosub")
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeInvalidRequest, res.Error.Code)

	res = ts.call(t, "token.Mint", depositAsset.String(), alice.String(), "1")
	require.NotNil(t, res.Error)
	assert.Contains(t, res.Error.Message, apiserver.ErrMintDisabled.Error())

	d := ts.mustCall(t, "farm.DeriveRewarder", manager.String())
	res = ts.call(t, "farm.Appoint", manager.String(), alice.String(), d["bump"])
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeIdentityError, res.Error.Code)

	ts.mustCall(t, "farm.Appoint", manager.String(), d["address"], d["bump"])
	res = ts.call(t, "farm.Appoint", manager.String(), d["address"], d["bump"])
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeIdentityError, res.Error.Code)

	res = ts.call(t, "farm.Sow", manager.String(), alice.String(), 1, "0")
	require.NotNil(t, res.Error)
	assert.Equal(t, apiserver.CodeValidation, res.Error.Code)
}

func TestDuplicateSub(t *testing.T) {
	s := apiserver.NewAPIServer(1, logger.Discard())
	defer s.Close(context.Background())

	_, err := s.JRPC("farm")
	require.NoError(t, err)
	_, err = s.JRPC("farm")
	assert.ErrorIs(t, err, apiserver.ErrExistSubName)
}

func TestWebsocket(t *testing.T) {
	ts := newTestServer(t, false)

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/api/endpoints/websocket"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(&apiserver.JRPCRequest{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "farm.DeriveCrop",
		Params:  []interface{}{manager.String(), 3},
	}))
	var res apiserver.JRPCResponse
	require.NoError(t, conn.ReadJSON(&res))
	require.Nil(t, res.Error)
	assert.EqualValues(t, 7, res.ID)

	deriver := derive.NewDeriver(programID)
	expected, err := deriver.Crop(manager, 3)
	require.NoError(t, err)
	ret := res.Result.(map[string]interface{})
	assert.Equal(t, expected.Address.String(), ret["address"])
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t, false)

	res, err := http.Get(ts.http.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
