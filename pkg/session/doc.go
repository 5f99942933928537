/*
Package session implements session management and persistence orchestration.

It serializes turns of the same conversation (an in-process mutex per session
ID, plus an optional distributed lock across replicas) while different
sessions proceed in parallel, each isolated in the state store.
*/
package session
