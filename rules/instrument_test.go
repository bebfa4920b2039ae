package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valeratrades/codestyle/syntax"
)

func TestInstrumentMissing(t *testing.T) {
	f := parseFile(t, `async fn fetch_data() {
    query().await;
}
`)

	vs := Instrument{}.Check(f)
	require.Len(t, vs, 1)
	assert.Equal(t, "instrument", vs[0].Rule)
	assert.Equal(t, "no #[instrument] on async fn `fetch_data`", vs[0].Message)
	assert.False(t, vs[0].Fixable())
}

func TestInstrumentPresent(t *testing.T) {
	for _, src := range []string{
		"#[instrument]\nasync fn a() {}\n",
		"#[tracing::instrument(skip_all)]\nasync fn b() {}\n",
		"#[instrument(level = \"debug\")]\nasync fn c() {}\n",
	} {
		f := parseFile(t, src)
		assert.Empty(t, Instrument{}.Check(f), "source:\n%s", src)
	}
}

func TestInstrumentSyncFnIgnored(t *testing.T) {
	f := parseFile(t, "fn compute() {}\n")
	assert.Empty(t, Instrument{}.Check(f))
}

func TestInstrumentMainExempt(t *testing.T) {
	f := parseFile(t, "async fn main() {}\n")
	assert.Empty(t, Instrument{}.Check(f))
}

func TestInstrumentUtilsFileExempt(t *testing.T) {
	f, err := syntax.Parse("src/utils.rs", []byte("async fn helper() {}\n"))
	require.NoError(t, err)
	t.Cleanup(f.Close)

	assert.Empty(t, Instrument{}.Check(f))
}
