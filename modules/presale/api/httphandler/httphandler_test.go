package httphandler_test

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/presale/modules/presale"
	"github.com/gaze-network/presale/modules/presale/api/httphandler"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/repository/memory"
	"github.com/gaze-network/presale/pkg/decimals"
	"github.com/gaze-network/presale/pkg/erc20"
	"github.com/gaze-network/presale/pkg/errorhandler"
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	paymentAddr = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	saleAddr    = common.HexToAddress("0x00000000000000000000000000000000000000c2")
	treasury    = common.HexToAddress("0x00000000000000000000000000000000000000f0")
)

type wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func newWallet(t *testing.T) wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// sign sets the wallet auth headers on req. The body is read and restored.
func (w wallet) sign(t *testing.T, req *http.Request) {
	t.Helper()
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	req.Body = io.NopCloser(bytes.NewReader(body))

	message := walletauth.NewMessage(time.Now(), walletauth.Request{Method: req.Method, Path: req.URL.Path, Body: body})
	sig, err := crypto.Sign(walletauth.HashMessage(message), w.key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	req.Header.Set(walletauth.HeaderAddress, w.address.Hex())
	req.Header.Set(walletauth.HeaderMessage, message)
	req.Header.Set(walletauth.HeaderSignature, "0x"+hex.EncodeToString(sig))
}

type fixture struct {
	app     *fiber.App
	engine  *presale.Engine
	payment *erc20.Memory
	owner   wallet
	buyer   wallet
}

func usd(s string) string {
	return decimals.MustParseUnits(s, 18).Dec()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	payment := erc20.NewMemory(paymentAddr, treasury, "USDT", 18)
	sale := erc20.NewMemory(saleAddr, treasury, "SALE", 7)
	require.NoError(t, sale.Mint(treasury, decimals.MustParseUnits("1000000", 7)))

	engine, err := presale.NewEngine(memory.NewRepository(), payment, sale, presale.Options{Treasury: treasury})
	require.NoError(t, err)

	f := &fixture{
		engine:  engine,
		payment: payment,
		owner:   newWallet(t),
		buyer:   newWallet(t),
	}
	_, err = engine.Deploy(context.Background(), presale.DeployParams{
		Owner: f.owner.address,
		Tiers: []entity.Tier{
			{MinSpend: decimals.MustParseUnits("0", 18), PricePerToken: decimals.MustParseUnits("0.10", 18)},
			{MinSpend: decimals.MustParseUnits("100", 18), PricePerToken: decimals.MustParseUnits("0.08", 18)},
			{MinSpend: decimals.MustParseUnits("1000", 18), PricePerToken: decimals.MustParseUnits("0.05", 18)},
		},
		MinPurchase:     decimals.MustParseUnits("10", 18),
		MaxPurchase:     decimals.MustParseUnits("10000", 18),
		HardCap:         decimals.MustParseUnits("1000000", 18),
		ReleaseTime:     time.Now().Add(time.Hour),
		PaymentDecimals: 18,
		SaleDecimals:    7,
	})
	require.NoError(t, err)

	f.app = fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, httphandler.New(engine, walletauth.Config{}).Mount(f.app))
	return f
}

func (f *fixture) fund(t *testing.T, account common.Address, amount string) {
	t.Helper()
	value := decimals.MustParseUnits(amount, 18)
	require.NoError(t, f.payment.Mint(account, value))
	f.payment.Approve(account, treasury, value)
}

// do sends the request and decodes the response body into result.
func (f *fixture) do(t *testing.T, req *http.Request, result any) int {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if result != nil {
		require.NoError(t, json.Unmarshal(body, result), string(body))
	}
	return resp.StatusCode
}

func post(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestGetTiersAndPreview(t *testing.T) {
	f := newFixture(t)

	var tiers struct {
		Result struct {
			Count int `json:"count"`
			List  []struct {
				MinSpend      string `json:"minSpend"`
				PricePerToken string `json:"pricePerToken"`
			} `json:"list"`
		} `json:"result"`
	}
	status := f.do(t, httptest.NewRequest(http.MethodGet, "/presale/v1/tiers", nil), &tiers)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, tiers.Result.Count)
	assert.Equal(t, usd("100"), tiers.Result.List[1].MinSpend)
	assert.Equal(t, usd("0.08"), tiers.Result.List[1].PricePerToken)

	var preview struct {
		Result struct {
			AppliedPrice string `json:"appliedPrice"`
			TierIndex    int    `json:"tierIndex"`
			TokensOut    string `json:"tokensOut"`
		} `json:"result"`
	}
	status = f.do(t, httptest.NewRequest(http.MethodGet, "/presale/v1/preview?amount="+usd("150"), nil), &preview)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, preview.Result.TierIndex)
	assert.Equal(t, usd("0.08"), preview.Result.AppliedPrice)
	assert.Equal(t, "18750000000", preview.Result.TokensOut)

	var errResp errorBody
	status = f.do(t, httptest.NewRequest(http.MethodGet, "/presale/v1/preview", nil), &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errResp.Error, "'amount' is required")
}

func TestBuy(t *testing.T) {
	f := newFixture(t)
	f.fund(t, f.buyer.address, "150")

	t.Run("unauthenticated", func(t *testing.T) {
		var errResp errorBody
		status := f.do(t, post("/presale/v1/buy", `{"amount":"`+usd("150")+`"}`), &errResp)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthenticated", errResp.Code)
	})

	t.Run("headers_reused_with_other_body", func(t *testing.T) {
		signed := post("/presale/v1/buy", `{"amount":"`+usd("5")+`"}`)
		f.buyer.sign(t, signed)
		req := post("/presale/v1/buy", `{"amount":"`+usd("150")+`"}`)
		for _, header := range []string{walletauth.HeaderAddress, walletauth.HeaderMessage, walletauth.HeaderSignature} {
			req.Header.Set(header, signed.Header.Get(header))
		}
		var errResp errorBody
		status := f.do(t, req, &errResp)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthenticated", errResp.Code)
	})

	t.Run("below_minimum", func(t *testing.T) {
		req := post("/presale/v1/buy", `{"amount":"`+usd("5")+`"}`)
		f.buyer.sign(t, req)
		var errResp errorBody
		status := f.do(t, req, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "BelowMinimum", errResp.Code)
	})

	t.Run("success", func(t *testing.T) {
		req := post("/presale/v1/buy", `{"amount":"`+usd("150")+`"}`)
		f.buyer.sign(t, req)
		var resp struct {
			Result struct {
				Buyer     string `json:"buyer"`
				Recipient string `json:"recipient"`
				TokensOut string `json:"tokensOut"`
				TierIndex int    `json:"tierIndex"`
				Delivered bool   `json:"delivered"`
			} `json:"result"`
		}
		status := f.do(t, req, &resp)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, f.buyer.address.Hex(), resp.Result.Buyer)
		assert.Equal(t, f.buyer.address.Hex(), resp.Result.Recipient)
		assert.Equal(t, "18750000000", resp.Result.TokensOut)
		assert.Equal(t, 1, resp.Result.TierIndex)
		assert.False(t, resp.Result.Delivered)
	})

	var vested struct {
		Result struct {
			Account string `json:"account"`
			Balance string `json:"balance"`
		} `json:"result"`
	}
	status := f.do(t, httptest.NewRequest(http.MethodGet, "/presale/v1/vesting/"+f.buyer.address.Hex(), nil), &vested)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "18750000000", vested.Result.Balance)

	var purchases struct {
		Result struct {
			List []struct {
				Amount string `json:"amount"`
			} `json:"list"`
		} `json:"result"`
	}
	status = f.do(t, httptest.NewRequest(http.MethodGet, "/presale/v1/purchases/"+f.buyer.address.Hex(), nil), &purchases)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, purchases.Result.List, 1)
	assert.Equal(t, usd("150"), purchases.Result.List[0].Amount)

	var errResp errorBody
	status = f.do(t, httptest.NewRequest(http.MethodGet, "/presale/v1/vesting/not-an-address", nil), &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestClaimBeforeRelease(t *testing.T) {
	f := newFixture(t)

	req := post("/presale/v1/claim", `{}`)
	f.buyer.sign(t, req)
	var errResp errorBody
	status := f.do(t, req, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "InvalidTime", errResp.Code)
}

func TestAdmin(t *testing.T) {
	f := newFixture(t)

	t.Run("not_owner", func(t *testing.T) {
		req := post("/presale/v1/admin/pause", `{}`)
		f.buyer.sign(t, req)
		var errResp errorBody
		status := f.do(t, req, &errResp)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Unauthorized", errResp.Code)
	})

	t.Run("pause_blocks_buy", func(t *testing.T) {
		req := post("/presale/v1/admin/pause", `{}`)
		f.owner.sign(t, req)
		require.Equal(t, http.StatusOK, f.do(t, req, nil))

		f.fund(t, f.buyer.address, "50")
		req = post("/presale/v1/buy", `{"amount":"`+usd("50")+`"}`)
		f.buyer.sign(t, req)
		var errResp errorBody
		status := f.do(t, req, &errResp)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Paused", errResp.Code)

		req = post("/presale/v1/admin/unpause", `{}`)
		f.owner.sign(t, req)
		require.Equal(t, http.StatusOK, f.do(t, req, nil))
	})

	t.Run("set_limits", func(t *testing.T) {
		req := post("/presale/v1/admin/limits", `{"minPurchase":"`+usd("20")+`","maxPurchase":"`+usd("500")+`","hardCap":"`+usd("2000")+`"}`)
		f.owner.sign(t, req)
		require.Equal(t, http.StatusOK, f.do(t, req, nil))

		state, err := f.engine.State(context.Background())
		require.NoError(t, err)
		assert.Equal(t, usd("20"), state.MinPurchase.Dec())
		assert.Equal(t, usd("500"), state.MaxPurchase.Dec())
		assert.Equal(t, usd("2000"), state.HardCap.Dec())
	})

	t.Run("set_limits_invalid", func(t *testing.T) {
		req := post("/presale/v1/admin/limits", `{"minPurchase":"abc","maxPurchase":"`+usd("500")+`","hardCap":"`+usd("2000")+`"}`)
		f.owner.sign(t, req)
		var errResp errorBody
		status := f.do(t, req, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, errResp.Error, "minPurchase")
	})

	t.Run("set_release_time", func(t *testing.T) {
		releaseTime := time.Now().Add(48 * time.Hour).Unix()
		req := post("/presale/v1/admin/release-time", `{"releaseTime":`+strconv.FormatInt(releaseTime, 10)+`}`)
		f.owner.sign(t, req)
		require.Equal(t, http.StatusOK, f.do(t, req, nil))

		state, err := f.engine.State(context.Background())
		require.NoError(t, err)
		assert.Equal(t, releaseTime, state.ReleaseTime.Unix())
	})

	t.Run("set_tiers_unsorted", func(t *testing.T) {
		req := post("/presale/v1/admin/tiers", `{"tiers":[{"minSpend":"`+usd("100")+`","pricePerToken":"1"},{"minSpend":"0","pricePerToken":"1"}]}`)
		f.owner.sign(t, req)
		var errResp errorBody
		status := f.do(t, req, &errResp)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "InvalidTiers", errResp.Code)
	})
}

