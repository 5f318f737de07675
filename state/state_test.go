// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/lvldb"
	"github.com/vestradao/vdao/vdao"
)

func TestStateReadWrite(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	addr := vdao.BytesToAddress([]byte("account"))
	key := vdao.BytesToBytes32([]byte("key"))

	v, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Empty(t, v)

	st.SetStorage(addr, key, []byte("value"))
	v, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	// nothing persisted before commit
	has, err := db.Has(storageKey{addr, key}.encode())
	assert.NoError(t, err)
	assert.False(t, has)

	stage := st.Stage()
	assert.Equal(t, 1, stage.Len())
	require.NoError(t, stage.Commit(db))

	v, err = New(db).GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	// clearing a slot deletes it
	st = New(db)
	st.SetStorage(addr, key, nil)
	require.NoError(t, st.Stage().Commit(db))
	has, err = db.Has(storageKey{addr, key}.encode())
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestStateRevert(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	addr := vdao.BytesToAddress([]byte("account"))
	k1 := vdao.BytesToBytes32([]byte("k1"))
	k2 := vdao.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, []byte("a"))
	cp := st.NewCheckpoint()
	st.SetStorage(addr, k1, []byte("b"))
	st.SetStorage(addr, k2, []byte("c"))

	st.RevertTo(cp)

	v, err := st.GetStorage(addr, k1)
	assert.NoError(t, err)
	assert.Equal(t, []byte("a"), v)
	v, err = st.GetStorage(addr, k2)
	assert.NoError(t, err)
	assert.Empty(t, v)
	assert.Equal(t, 1, st.Stage().Len())

	// reverting everything leaves a usable state
	st.RevertTo(0)
	assert.Equal(t, 0, st.Stage().Len())
	st.SetStorage(addr, k2, []byte("d"))
	assert.Equal(t, 1, st.Stage().Len())
}

func TestStateCodecErrors(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	addr := vdao.BytesToAddress([]byte("account"))
	key := vdao.BytesToBytes32([]byte("key"))

	boom := errors.New("boom")
	err = st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, boom })
	var stateErr *Error
	assert.True(t, errors.As(err, &stateErr))
	assert.ErrorIs(t, err, boom)

	err = st.DecodeStorage(addr, key, func([]byte) error { return boom })
	assert.ErrorIs(t, err, boom)
}
