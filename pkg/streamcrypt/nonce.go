package streamcrypt

import (
	"github.com/go-naclypt/naclypt/internal/constants"
	naclerrors "github.com/go-naclypt/naclypt/internal/errors"
	"github.com/go-naclypt/naclypt/pkg/crand"
	"github.com/go-naclypt/naclypt/pkg/obsmetrics"
	"github.com/go-naclypt/naclypt/pkg/xsecretbox"
)

// epochSentinel is assigned to newNonceIn after a refresh. It is far
// larger than any single chunk (BufLen), so in practice a stream draws
// exactly one random nonce prefix at its very first chunk and keeps it
// for the rest of the stream; a fresh prefix is drawn again only if a
// single stream somehow outlives this countdown, which does not happen
// at realistic file sizes.
const epochSentinel = int64(1) << 62

// scheduler produces the nonce sequence for one stream. It is not safe
// for concurrent use.
type scheduler struct {
	nonce      [xsecretbox.NonceBytes]byte
	totalRead  uint64
	newNonceIn int64
	rnd        *crand.Source
}

// newScheduler returns a scheduler primed to refresh on its first chunk.
// rnd may be nil on the decrypt side, where the random prefix comes from
// the ciphertext rather than the random source.
func newScheduler(rnd *crand.Source) *scheduler {
	return &scheduler{rnd: rnd, newNonceIn: 0}
}

// dueForRefresh reports whether the chunk about to be processed begins a
// new nonce epoch.
func (s *scheduler) dueForRefresh() bool {
	return s.newNonceIn <= 0
}

// refresh draws a fresh random prefix from the random source and writes
// the current cumulative plaintext counter into the low-order nonce
// octets. Used on the encrypt side.
func (s *scheduler) refresh() error {
	if err := s.rnd.Fill(s.nonce[:constants.NonceRandoms]); err != nil {
		return naclerrors.Environment("streamcrypt.refresh", err)
	}
	s.fillCounter()
	s.newNonceIn = epochSentinel
	obsmetrics.Global().RecordEpochRefresh()
	return nil
}

// recover installs a random prefix read out of a just-received ciphertext
// chunk, zeroing that region in place so the AEAD primitive sees the
// mandatory all-zero prefix it requires, then writes in the counter
// portion. Used on the decrypt side.
func (s *scheduler) recover(chunk []byte) {
	copy(s.nonce[:constants.NonceRandoms], chunk[:constants.NonceRandoms])
	for i := 0; i < constants.NonceRandoms; i++ {
		chunk[i] = 0
	}
	s.fillCounter()
	s.newNonceIn = epochSentinel
	obsmetrics.Global().RecordEpochRefresh()
}

// fillCounter writes the little-endian low bytes of totalRead into the
// nonce octets following the random prefix.
func (s *scheduler) fillCounter() {
	n := s.totalRead
	for i := constants.NonceRandoms; i < xsecretbox.NonceBytes; i++ {
		s.nonce[i] = byte(n)
		n >>= 8
	}
}

// advance records that n plaintext octets were processed in the chunk
// just handled.
func (s *scheduler) advance(n int) {
	s.newNonceIn -= int64(n)
	s.totalRead += uint64(n)
}
