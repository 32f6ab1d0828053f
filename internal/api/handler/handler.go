package handler

import "github.com/Iamanointing/mvv/internal/service"

// Handler groups every HTTP handler.
type Handler struct {
	Auth         *AuthHandler
	Roster       *RosterHandler
	Election     *ElectionHandler
	Setting      *SettingHandler
	Vote         *VoteHandler
	Voting       *VotingHandler
	Result       *ResultHandler
	Announcement *AnnouncementHandler
	User         *UserHandler
}

// NewHandler wires handlers to their services.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Roster:       NewRosterHandler(svc.Roster),
		Election:     NewElectionHandler(svc.Election),
		Setting:      NewSettingHandler(svc.Setting),
		Vote:         NewVoteHandler(svc.Vote),
		Voting:       NewVotingHandler(svc.Voting),
		Result:       NewResultHandler(svc.Result, svc.Export),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		User:         NewUserHandler(svc.Profile),
	}
}
