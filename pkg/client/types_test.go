package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	h, err := Decode[HeightInfo](Value(`{"height":402130,"status":"OK"}`))
	require.NoError(t, err)
	assert.Equal(t, HeightInfo{Height: 402130, Status: "OK"}, h)

	bc, err := Decode[BlockCountInfo](Value(`{"count":402131,"status":"OK"}`))
	require.NoError(t, err)
	assert.EqualValues(t, 402131, bc.Count)

	_, err = Decode[HeightInfo](Value(`{"height":"high"}`))
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*ParseError))

	_, err = Decode[BalanceInfo](nil)
	require.Error(t, err)
	assert.True(t, IsHTTPError(err))
}
