// Package integration contains the Integration bounded context.
// This context covers the upstream catalog platform (BaseLinker) and the
// normalization of its loosely typed records.
//
// Key concepts:
//   - EcommercePlatform: Port interface for the upstream catalog platform
//   - Value: decoded upstream JSON whose shape is checked explicitly
//   - RawProduct: product record as the platform shaped it
//   - CanonicalProduct: flat product record every feed is rendered from
//   - Normalizer: the only producer of CanonicalProduct
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
