// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

//go:build integration

package integration

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/clock"
)

var _ = Describe("Feedback", func() {
	var (
		ctx    context.Context
		poster *auth.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx, env.pool)
		env.clock.Set(time.Date(2025, 4, 30, 23, 30, 0, 0, clock.Zone))

		user, _, err := env.Auth.Register(ctx, auth.RegisterParams{
			Email:    "poster@example.com",
			Username: "poster",
			Password: "hunter22",
		})
		Expect(err).NotTo(HaveOccurred())
		poster = &auth.Principal{ID: user.ID, Email: user.Email, Username: user.Username}
	})

	It("buckets posts by the month of the fixed-offset clock", func() {
		posted, err := env.Feedback.Post(ctx, poster, "late april post")
		Expect(err).NotTo(HaveOccurred())
		Expect(posted.Month).To(Equal("2025-04"))

		// Crossing midnight in UTC+8 moves the bucket.
		env.clock.Advance(time.Hour)
		posted, err = env.Feedback.Post(ctx, poster, "early may post")
		Expect(err).NotTo(HaveOccurred())
		Expect(posted.Month).To(Equal("2025-05"))
	})

	It("lists by month, newest first", func() {
		_, err := env.Feedback.Post(ctx, poster, "first")
		Expect(err).NotTo(HaveOccurred())
		env.clock.Advance(time.Minute)
		_, err = env.Feedback.Post(ctx, poster, "second")
		Expect(err).NotTo(HaveOccurred())
		env.clock.Advance(48 * time.Hour)
		_, err = env.Feedback.Post(ctx, poster, "next month")
		Expect(err).NotTo(HaveOccurred())

		april, err := env.Feedback.List(ctx, "2025-04")
		Expect(err).NotTo(HaveOccurred())
		Expect(april).To(HaveLen(2))
		Expect(april[0].Content).To(Equal("second"))

		all, err := env.Feedback.List(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
	})
})
