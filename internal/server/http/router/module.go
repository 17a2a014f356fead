package router

import "go.uber.org/fx"

// BookingsModule registers the bookings router for fx runtime.
var BookingsModule = fx.Provide(SetupBookings)

// RewardsModule registers the rewards router for fx runtime.
var RewardsModule = fx.Provide(SetupRewards)

// UsersModule registers the users router for fx runtime.
var UsersModule = fx.Provide(SetupUsers)
