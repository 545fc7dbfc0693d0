// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/types"
)

type Event struct {
	Seq      uint64            `json:"seq"`
	OpSeq    uint64            `json:"opSeq"`
	Time     uint64            `json:"time"`
	Contract types.Address     `json:"contract"`
	Name     string            `json:"name"`
	Subjects []types.Address   `json:"subjects"`
	Args     map[string]string `json:"args"`
}

func convertEvent(ev *eventdb.Event) *Event {
	return &Event{
		Seq:      ev.Seq,
		OpSeq:    ev.OpSeq,
		Time:     ev.Time,
		Contract: ev.Contract,
		Name:     ev.Name,
		Subjects: ev.Subjects,
		Args:     ev.Args,
	}
}

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

// New creates the event query handler. limit caps the page size.
func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{
		Name: query.Get("name"),
	}
	if v := query.Get("contract"); v != "" {
		addr, err := utils.ParseAddress("contract", v)
		if err != nil {
			return nil, err
		}
		filter.Contract = &addr
	}
	if v := query.Get("subject"); v != "" {
		addr, err := utils.ParseAddress("subject", v)
		if err != nil {
			return nil, err
		}
		filter.Subject = &addr
	}
	switch order := query.Get("order"); order {
	case "", string(eventdb.ASC):
		filter.Order = eventdb.ASC
	case string(eventdb.DESC):
		filter.Order = eventdb.DESC
	default:
		return nil, utils.BadRequest(errors.Errorf("order: invalid value %q", order))
	}
	offset, err := utils.ParseUint("offset", query.Get("offset"), 0)
	if err != nil {
		return nil, err
	}
	limit, err := utils.ParseUint("limit", query.Get("limit"), e.limit)
	if err != nil {
		return nil, err
	}
	if limit > e.limit {
		return nil, utils.Forbidden(errors.Errorf("limit: exceeds maximum %d", e.limit))
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	evs, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*Event, 0, len(evs))
	for _, ev := range evs {
		out = append(out, convertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
