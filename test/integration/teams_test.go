// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

//go:build integration

package integration

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/team"
)

var _ = Describe("Teams", func() {
	var (
		ctx     context.Context
		creator *auth.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx, env.pool)
		env.clock.Set(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC))

		user, _, err := env.Auth.Register(ctx, auth.RegisterParams{
			Email:    "creator@example.com",
			Username: "creator",
			Password: "hunter22",
		})
		Expect(err).NotTo(HaveOccurred())
		creator = &auth.Principal{ID: user.ID, Email: user.Email, Username: user.Username}
	})

	strptr := func(s string) *string { return &s }

	Describe("Create and Get", func() {
		It("round-trips all fields", func() {
			created, err := env.Teams.Create(ctx, creator, team.CreateParams{
				Game:        "dota2",
				Title:       "ranked five stack",
				Description: strptr("mid or feed"),
				Contact:     strptr("wechat: creator"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := env.Teams.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CreatorID).To(Equal(creator.ID))
			Expect(got.Game).To(Equal("dota2"))
			Expect(got.Title).To(Equal("ranked five stack"))
			Expect(*got.Description).To(Equal("mid or feed"))
			Expect(*got.Contact).To(Equal("wechat: creator"))
			Expect(got.Status).To(Equal(team.StatusOpen))
		})

		It("stores nil optional fields as NULL", func() {
			created, err := env.Teams.Create(ctx, creator, team.CreateParams{
				Game:  "csgo",
				Title: "no description",
			})
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Teams.Get(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Description).To(BeNil())
			Expect(got.Contact).To(BeNil())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := range 5 {
				game := "dota2"
				if i%2 == 1 {
					game = "csgo"
				}
				_, err := env.Teams.Create(ctx, creator, team.CreateParams{
					Game:  game,
					Title: fmt.Sprintf("team %d", i),
				})
				Expect(err).NotTo(HaveOccurred())
				env.clock.Advance(time.Second)
			}
		})

		It("returns newest first", func() {
			teams, err := env.Teams.List(ctx, team.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(teams).To(HaveLen(5))
			Expect(teams[0].Title).To(Equal("team 4"))
			Expect(teams[4].Title).To(Equal("team 0"))
		})

		It("filters by game", func() {
			teams, err := env.Teams.List(ctx, team.ListFilter{Game: "csgo"})
			Expect(err).NotTo(HaveOccurred())
			Expect(teams).To(HaveLen(2))
		})

		It("paginates", func() {
			teams, err := env.Teams.List(ctx, team.ListFilter{Limit: 2, Offset: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(teams).To(HaveLen(2))
			Expect(teams[0].Title).To(Equal("team 2"))
		})
	})

	Describe("Update and Delete", func() {
		var other *auth.Principal

		BeforeEach(func() {
			user, _, err := env.Auth.Register(ctx, auth.RegisterParams{
				Email:    "other@example.com",
				Username: "other",
				Password: "hunter22",
			})
			Expect(err).NotTo(HaveOccurred())
			other = &auth.Principal{ID: user.ID, Email: user.Email, Username: user.Username}
		})

		It("lets only the creator update", func() {
			created, err := env.Teams.Create(ctx, creator, team.CreateParams{
				Game: "dota2", Title: "original",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Teams.Update(ctx, other, created.ID, team.UpdateParams{
				Title: strptr("hijacked"),
			})
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("NOT_OWNER"))

			status := team.StatusClosed
			updated, err := env.Teams.Update(ctx, creator, created.ID, team.UpdateParams{
				Title:  strptr("renamed"),
				Status: &status,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("renamed"))
			Expect(updated.Status).To(Equal(team.StatusClosed))
		})

		It("lets only the creator delete", func() {
			created, err := env.Teams.Create(ctx, creator, team.CreateParams{
				Game: "dota2", Title: "doomed",
			})
			Expect(err).NotTo(HaveOccurred())

			err = env.Teams.Delete(ctx, other, created.ID)
			Expect(err).To(HaveOccurred())

			Expect(env.Teams.Delete(ctx, creator, created.ID)).To(Succeed())

			_, err = env.Teams.Get(ctx, created.ID)
			Expect(err).To(HaveOccurred())
		})
	})
})
