package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrArtifactFetch is fatal for a session's contract features.
var ErrArtifactFetch = errors.New("contract artifact unavailable")

// NetworkMismatchError means the artifact has no deployment for the
// wallet's current network.
type NetworkMismatchError struct {
	NetworkID string
}

func (e *NetworkMismatchError) Error() string {
	return fmt.Sprintf("contract not found for network %s", e.NetworkID)
}

// Deployment is one entry of the artifact's networks map.
type Deployment struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// Artifact is the subset of a Truffle build artifact the gateway reads.
type Artifact struct {
	ContractName string                `json:"contractName"`
	ABI          json.RawMessage       `json:"abi"`
	Networks     map[string]Deployment `json:"networks"`
}

const maxArtifactBytes = 8 << 20

// LoadArtifact reads an artifact from a file path or an http(s) URL.
func LoadArtifact(ctx context.Context, src string) (*Artifact, error) {
	var (
		b   []byte
		err error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		b, err = fetchArtifact(ctx, src)
	} else {
		b, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactFetch, src, err)
	}
	return ParseArtifact(b)
}

func fetchArtifact(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes))
}

// ParseArtifact decodes artifact JSON and checks that its ABI parses.
func ParseArtifact(b []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrArtifactFetch, err)
	}
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("%w: artifact has no abi", ErrArtifactFetch)
	}
	if _, err := a.Interface(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactFetch, err)
	}
	return &a, nil
}

// Interface parses the artifact's ABI.
func (a *Artifact) Interface() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	return parsed, nil
}

// AddressFor resolves the deployed address for networkID.
func (a *Artifact) AddressFor(networkID *big.Int) (common.Address, error) {
	id := "<nil>"
	if networkID != nil {
		id = networkID.String()
	}
	d, ok := a.Networks[id]
	if !ok || !common.IsHexAddress(d.Address) {
		return common.Address{}, &NetworkMismatchError{NetworkID: id}
	}
	return common.HexToAddress(d.Address), nil
}
