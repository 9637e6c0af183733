// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

//go:build integration

package integration

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
)

var _ = Describe("Authentication", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx, env.pool)
		env.clock.Set(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))
	})

	registerParams := func() auth.RegisterParams {
		return auth.RegisterParams{
			Email:    "player@example.com",
			Username: "player1",
			Password: "hunter22",
		}
	}

	Describe("Register", func() {
		It("persists the user and opens a session", func() {
			user, token, err := env.Auth.Register(ctx, registerParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(BeNumerically(">", 0))
			Expect(token).NotTo(BeEmpty())

			principal, err := env.Auth.Validate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(principal.ID).To(Equal(user.ID))
		})

		It("rejects a duplicate email regardless of case", func() {
			_, _, err := env.Auth.Register(ctx, registerParams())
			Expect(err).NotTo(HaveOccurred())

			params := registerParams()
			params.Email = "PLAYER@example.com"
			params.Username = "someoneelse"
			_, _, err = env.Auth.Register(ctx, params)
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("VALIDATION_DUPLICATE"))
		})

		It("never stores the plaintext password", func() {
			_, _, err := env.Auth.Register(ctx, registerParams())
			Expect(err).NotTo(HaveOccurred())

			var hash string
			err = env.pool.QueryRow(ctx,
				`SELECT password_hash FROM users WHERE email = $1`,
				"player@example.com").Scan(&hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(HavePrefix("$argon2id$"))
			Expect(hash).NotTo(ContainSubstring("hunter22"))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, _, err := env.Auth.Register(ctx, registerParams())
			Expect(err).NotTo(HaveOccurred())
		})

		It("mints a fresh session per login", func() {
			_, token1, err := env.Auth.Login(ctx, "player@example.com", "hunter22")
			Expect(err).NotTo(HaveOccurred())
			_, token2, err := env.Auth.Login(ctx, "player@example.com", "hunter22")
			Expect(err).NotTo(HaveOccurred())
			Expect(token1).NotTo(Equal(token2))

			var count int
			err = env.pool.QueryRow(ctx, `SELECT count(*) FROM sessions`).Scan(&count)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3), "register plus two logins")
		})

		It("rejects a wrong password", func() {
			_, _, err := env.Auth.Login(ctx, "player@example.com", "wrong")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Session expiry", func() {
		It("rejects and removes an expired session", func() {
			_, token, err := env.Auth.Register(ctx, registerParams())
			Expect(err).NotTo(HaveOccurred())

			env.clock.Advance(auth.SessionTTL + time.Second)

			_, err = env.Auth.Validate(ctx, token)
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("SESSION_EXPIRED"))

			var count int
			err = env.pool.QueryRow(ctx, `SELECT count(*) FROM sessions`).Scan(&count)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero(), "expired session is deleted on validation")
		})
	})

	Describe("Revoke", func() {
		It("invalidates only the revoked session", func() {
			_, token1, err := env.Auth.Register(ctx, registerParams())
			Expect(err).NotTo(HaveOccurred())
			_, token2, err := env.Auth.Login(ctx, "player@example.com", "hunter22")
			Expect(err).NotTo(HaveOccurred())

			Expect(env.Auth.Revoke(ctx, token1)).To(Succeed())

			_, err = env.Auth.Validate(ctx, token1)
			Expect(err).To(HaveOccurred())
			_, err = env.Auth.Validate(ctx, token2)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
