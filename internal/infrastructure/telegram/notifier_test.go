package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct{ path, chat, text, preview string }

func newTestNotifier(t *testing.T, status int, body string) (*Notifier, chan sent) {
	t.Helper()

	calls := make(chan sent, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		calls <- sent{
			path:    r.URL.Path,
			chat:    r.PostForm.Get("chat_id"),
			text:    r.PostForm.Get("text"),
			preview: r.PostForm.Get("disable_web_page_preview"),
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	n := NewNotifier("123:abc", "-100")
	n.apiBase = server.URL
	n.client = server.Client()
	return n, calls
}

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	n, calls := newTestNotifier(t, http.StatusOK, `{"ok":true}`)

	require.NoError(t, n.PublishDigest(context.Background(), "DPIIT\n- QCO"))
	got := <-calls
	assert.Equal(t, "/bot123:abc/sendMessage", got.path)
	assert.Equal(t, "-100", got.chat)
	assert.Equal(t, "DPIIT\n- QCO", got.text)
	assert.Equal(t, "true", got.preview)
}

func TestPublishDigestSplitsLongDigest(t *testing.T) {
	t.Parallel()

	n, calls := newTestNotifier(t, http.StatusOK, `{"ok":true}`)
	line := strings.Repeat("x", 99) + "\n"
	digest := strings.Repeat(line, 60)

	require.NoError(t, n.PublishDigest(context.Background(), digest))
	close(calls)

	var joined strings.Builder
	count := 0
	for c := range calls {
		count++
		assert.LessOrEqual(t, utf8.RuneCountInString(c.text), maxMessageRunes)
		joined.WriteString(c.text)
	}
	assert.Equal(t, 2, count)
	assert.Equal(t, digest, joined.String())
}

func TestPublishDigestErrors(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, NewNotifier("", "").PublishDigest(context.Background(), "x"), errMisconfigured)

	n, _ := newTestNotifier(t, http.StatusUnauthorized, `{"ok":false,"description":"Unauthorized"}`)
	err := n.PublishDigest(context.Background(), "x")
	assert.ErrorContains(t, err, "401")
	assert.ErrorContains(t, err, "Unauthorized")

	n, _ = newTestNotifier(t, http.StatusOK, `{"ok":false,"description":"chat not found"}`)
	assert.ErrorContains(t, n.PublishDigest(context.Background(), "x"), "chat not found")
}

func TestChunk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{""}, chunk("", 10))
	assert.Equal(t, []string{"short"}, chunk("short", 10))
	assert.Equal(t, []string{"aaaa\n", "bbbb"}, chunk("aaaa\nbbbb", 6))

	long := strings.Repeat("ब", 25)
	parts := chunk(long, 10)
	require.Len(t, parts, 3)
	assert.Equal(t, 10, utf8.RuneCountInString(parts[0]))
	assert.Equal(t, long, strings.Join(parts, ""))
}
