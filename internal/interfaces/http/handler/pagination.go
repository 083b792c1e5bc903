package handler

import "github.com/aquafarm/backend/internal/interfaces/http/dto"

// effectivePage mirrors the defaults the services apply, for the response meta
func effectivePage(page, pageSize int) (int, int) {
	d := dto.DefaultListRequest()
	if page < 1 {
		page = d.Page
	}
	if pageSize < 1 {
		pageSize = d.PageSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
