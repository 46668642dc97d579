package handlers

import "sendit/internal/domain"

func (r signupRequest) toModel() domain.NewUser {
	return domain.NewUser{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		OtherNames: r.OtherNames,
		Email:      r.Email,
		Username:   r.Username,
		Password:   r.Password,
	}
}

func (r createParcelRequest) toModel() domain.NewParcel {
	return domain.NewParcel{
		Weight:       r.Weight,
		WeightMetric: r.WeightMetric,
		From:         r.From,
		To:           r.To,
	}
}

func sessionToResponse(s domain.Session) sessionDTO {
	u := s.User
	return sessionDTO{
		Token: s.Token,
		User: userDTO{
			ID:         u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			OtherNames: u.OtherNames,
			Email:      u.Email,
			Username:   u.Username,
			IsAdmin:    u.IsAdmin,
			Registered: u.Registered,
		},
	}
}

func parcelToResponse(p domain.Parcel) parcelDTO {
	return parcelDTO{
		ID:              p.ID,
		PlacedBy:        p.PlacedBy,
		Weight:          p.Weight,
		WeightMetric:    p.WeightMetric,
		From:            p.From,
		To:              p.To,
		CurrentLocation: p.CurrentLocation,
		Status:          p.Status,
		SentOn:          p.SentOn,
		DeliveredOn:     p.DeliveredOn,
	}
}

func parcelsToResponse(list []domain.Parcel) []parcelDTO {
	out := make([]parcelDTO, 0, len(list))
	for _, p := range list {
		out = append(out, parcelToResponse(p))
	}
	return out
}
