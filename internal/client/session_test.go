package client_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/client"
)

var _ = Describe("SessionStore", func() {
	var (
		path  string
		store *client.SessionStore
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "nested", "session.yml")
		var err error
		store, err = client.NewSessionStore(path)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts logged out", func() {
		session, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(session.LoggedIn()).To(BeFalse())
	})

	It("persists the owner and token", func() {
		expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
		Expect(store.Save(client.Session{Email: "u@x.com", Token: "tok", ExpiresAt: expires})).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

		session, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(session.LoggedIn()).To(BeTrue())
		Expect(session.Email).To(Equal("u@x.com"))
		Expect(session.Token).To(Equal("tok"))
		Expect(session.ExpiresAt.Equal(expires)).To(BeTrue())
	})

	It("clears the session, twice without error", func() {
		Expect(store.Save(client.Session{Email: "u@x.com"})).To(Succeed())

		Expect(store.Clear()).To(Succeed())
		Expect(store.Clear()).To(Succeed())

		session, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(session.LoggedIn()).To(BeFalse())
	})
})
