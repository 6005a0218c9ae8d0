// Package app runs the wallet's commands. Each exported method backs one
// CLI subcommand: it loads the named wallet, talks to the chain and
// persists the wallet afterwards.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/config"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/assets"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/balance"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/chainclient"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/offer"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/storage"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/txbuilder"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/internal/wallet"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/tx"
	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// PasswordFunc returns the password that unlocks the named wallet.
type PasswordFunc func(walletName string) ([]byte, error)

// Options wires an App.
type Options struct {
	Network      config.NetworkType
	NetworkID    uint32
	BlockchainID types.ID
	PageSize     uint32

	Wallets wallet.Store
	Chain   chainclient.Service
	// Cache backs the asset-description cache.
	Cache storage.DB
	// Password is asked for when an encrypted wallet is opened. A nil
	// Password makes encrypted wallets unusable.
	Password PasswordFunc
	// EncryptionParams tunes wallet encryption. Zero means the defaults.
	EncryptionParams wallet.EncryptionParams

	Logger zerolog.Logger
}

// App executes wallet commands against one network.
type App struct {
	opts    Options
	wallets wallet.Store
	chain   chainclient.Service
	assets  *assets.Cache
	scanner *balance.Aggregator
	logger  zerolog.Logger

	closers []func() error
}

// New creates an App from already opened collaborators.
func New(opts Options) (*App, error) {
	if opts.Wallets == nil || opts.Chain == nil || opts.Cache == nil {
		return nil, fmt.Errorf("app: wallets, chain and cache are required")
	}
	if opts.EncryptionParams == (wallet.EncryptionParams{}) {
		opts.EncryptionParams = wallet.DefaultParams()
	}
	// Asset ids are only meaningful on one network.
	ns := storage.Namespace(opts.Cache, string(opts.Network))
	cache := assets.NewCache(ns, opts.Chain, opts.Logger)
	scanner, err := balance.New(opts.Chain, cache, opts.PageSize, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &App{
		opts:    opts,
		wallets: opts.Wallets,
		chain:   opts.Chain,
		assets:  cache,
		scanner: scanner,
		logger:  opts.Logger,
	}, nil
}

// Open builds an App from configuration: wallet files under the wallet
// directory, a Badger asset cache and the node's JSON-RPC API.
func Open(cfg *config.Config, password PasswordFunc, logger zerolog.Logger) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyAddressFormat()

	store, err := wallet.NewFileStore(cfg.WalletDir())
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.CacheDir(), 0700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := storage.OpenBadger(cfg.CacheDir())
	if err != nil {
		return nil, fmt.Errorf("open asset cache: %w", err)
	}

	client := chainclient.New(cfg.Endpoint, cfg.Timeout)
	a, err := New(Options{
		Network:      cfg.Network,
		NetworkID:    cfg.NetworkID,
		BlockchainID: cfg.ChainID(),
		PageSize:     cfg.PageSize,
		Wallets:      store,
		Chain:        chainclient.NewNodeService(client),
		Cache:        db,
		Password:     password,
		Logger:       logger,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return a, nil
}

// Close releases the asset cache.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// session is an opened wallet.
type session struct {
	name    string
	state   *wallet.State
	deriver *wallet.Deriver
}

// open loads and unlocks a wallet.
func (a *App) open(name string) (*session, error) {
	if err := wallet.CheckName(name); err != nil {
		return nil, err
	}
	state, err := a.wallets.Load(name)
	if err != nil {
		return nil, err
	}
	if state.IsEncrypted() {
		if a.opts.Password == nil {
			return nil, fmt.Errorf("%w: wallet %q is encrypted", types.ErrInvalidSeed, name)
		}
		pw, err := a.opts.Password(name)
		if err != nil {
			return nil, err
		}
		err = state.Unlock(pw)
		clear(pw)
		if err != nil {
			return nil, fmt.Errorf("unlock wallet %q: %w", name, err)
		}
	}
	d, err := state.Deriver()
	if err != nil {
		return nil, err
	}
	return &session{name: name, state: state, deriver: d}, nil
}

func (a *App) save(s *session) error {
	return a.wallets.Save(s.name, s.state)
}

// nextAddress hands out a fresh address and records it.
func (s *session) nextAddress() (types.Address, error) {
	k, err := s.state.NextKey(s.deriver)
	if err != nil {
		return types.Address{}, err
	}
	k.Key.Zero()
	return k.Address, nil
}

// native describes the native asset.
func (a *App) native(ctx context.Context) (types.AssetDescription, error) {
	return a.assets.Describe(ctx, chainclient.NativeAlias)
}

// builder returns a transaction builder with the chain's current fees.
func (a *App) builder(ctx context.Context) (*txbuilder.Builder, error) {
	native, err := a.native(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := a.chain.Fees(ctx)
	if err != nil {
		return nil, err
	}
	return txbuilder.New(txbuilder.Chain{
		NetworkID:        a.opts.NetworkID,
		BlockchainID:     a.opts.BlockchainID,
		NativeID:         native.AssetID,
		TxFee:            fees.TxFee,
		CreateAssetTxFee: fees.CreateAssetTxFee,
	}, a.logger), nil
}

func (a *App) protocol(ctx context.Context) (*offer.Protocol, *txbuilder.Builder, error) {
	b, err := a.builder(ctx)
	if err != nil {
		return nil, nil, err
	}
	return offer.New(b, a.chain, a.logger), b, nil
}

// keysFor derives the keys that control utxos.
func keysFor(d *wallet.Deriver, utxos ...wallet.UTXO) (tx.KeySet, error) {
	indices := make([]uint32, 0, len(utxos))
	for _, u := range utxos {
		indices = append(indices, u.HDIndex)
	}
	return d.KeysFor(indices...)
}

func zeroKeys(keys tx.KeySet) {
	for addr, k := range keys {
		k.Zero()
		delete(keys, addr)
	}
}

// signAndBroadcast signs every input of res with keys and submits it.
func (a *App) signAndBroadcast(ctx context.Context, res *txbuilder.Result, keys tx.KeySet) (types.ID, error) {
	defer zeroKeys(keys)

	stx := tx.NewSignedTx(res.Tx)
	if _, err := tx.Sign(stx, keys, res.Refs); err != nil {
		return types.ID{}, err
	}
	if !stx.IsFullySigned() {
		return types.ID{}, fmt.Errorf("%w: inputs %v", types.ErrIncompleteSignature, stx.UnsignedInputs())
	}
	txID, err := a.chain.Broadcast(ctx, stx.Hex())
	if err != nil {
		return types.ID{}, err
	}
	a.logger.Info().Str("txid", txID.String()).Msg("Transaction broadcast")
	return txID, nil
}
